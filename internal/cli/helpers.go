package cli

import (
	"fmt"
	"strconv"
	"strings"
)

func parseID(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return v, nil
}

// optionalFloat treats a zero flag value as "not provided". The body
// measurements this feeds are never legitimately zero.
func optionalFloat(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
