// Package validate holds the input rules applied before anything reaches
// persistence or derivation.
package validate

import (
	"fmt"
	"math"
	"time"
)

// Input limits for logged sets.
const (
	WeightMin  = 0.0
	WeightMax  = 500.0
	WeightStep = 0.5

	RepsMin = 1
	RepsMax = 50
)

// Weight checks that a set weight is positive, within range and on the
// 0.5 kg step grid.
func Weight(weight float64) error {
	if weight <= WeightMin {
		return fmt.Errorf("weight must be greater than %.1fkg", WeightMin)
	}
	if weight > WeightMax {
		return fmt.Errorf("weight must be at most %.1fkg", WeightMax)
	}
	if math.Abs(weight*2-math.Round(weight*2)) > 1e-9 {
		return fmt.Errorf("weight must be in %.1fkg steps", WeightStep)
	}
	return nil
}

// Reps checks that a rep count is within range.
func Reps(reps int) error {
	if reps < RepsMin {
		return fmt.Errorf("reps must be at least %d", RepsMin)
	}
	if reps > RepsMax {
		return fmt.Errorf("reps must be at most %d", RepsMax)
	}
	return nil
}

// SetData validates a whole (weight, reps) pair.
func SetData(weight float64, reps int) error {
	if err := Weight(weight); err != nil {
		return err
	}
	return Reps(reps)
}

// Date checks a YYYY-MM-DD date string.
func Date(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return nil
}

// Month checks a YYYY-MM target-month string.
func Month(s string) error {
	if _, err := time.Parse("2006-01", s); err != nil {
		return fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return nil
}
