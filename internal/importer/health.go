package importer

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/storage"
)

// Apple Health record types carried over into body stats.
const (
	hkBodyMass = "HKQuantityTypeIdentifierBodyMass"
	hkBodyFat  = "HKQuantityTypeIdentifierBodyFatPercentage"
)

// appleDateLayout is the startDate format in Health export.xml files.
const appleDateLayout = "2006-01-02 15:04:05 -0700"

// HealthImporter reads an Apple Health export.xml and upserts body-weight
// and body-fat snapshots. The export can be hundreds of megabytes, so
// records are decoded as a stream instead of loading the document.
type HealthImporter struct {
	db  *storage.DB
	log *slog.Logger
}

// NewHealthImporter creates an Apple Health importer.
func NewHealthImporter(db *storage.DB, log *slog.Logger) *HealthImporter {
	return &HealthImporter{db: db, log: log}
}

// Import streams the export at path into body stats. Multiple samples on
// one day collapse into that day's snapshot; weight and fat merge per date.
func (imp *HealthImporter) Import(ctx context.Context, path string) (Result, error) {
	return recordRun(ctx, imp.db, "apple_health", filepath.Base(path), func() (Result, error) {
		return imp.run(ctx, path)
	})
}

func (imp *HealthImporter) run(ctx context.Context, path string) (Result, error) {
	var res Result

	r, closeFn, err := openHealthExport(path)
	if err != nil {
		return res, err
	}
	defer closeFn()

	imp.log.Info("importing apple health export", "file", path)

	dec := xml.NewDecoder(r)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("parsing health export: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Record" {
			continue
		}

		recType, date, value, ok := parseHealthRecord(start)
		dec.Skip()
		if !ok {
			continue
		}

		stats := models.BodyStats{Date: date}
		switch recType {
		case hkBodyMass:
			stats.Weight = &value
		case hkBodyFat:
			// stored as a fraction (0.15 -> 15%)
			pct := value * 100
			stats.BodyFatPercentage = &pct
		default:
			continue
		}

		if _, err := imp.db.UpsertBodyStats(ctx, stats); err != nil {
			imp.log.Warn("skipping health record", "date", date, "error", err)
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// openHealthExport opens either a bare export.xml or the export.zip Health
// hands out, locating the xml inside the archive in the zip case.
func openHealthExport(path string) (io.Reader, func() error, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening health export archive: %w", err)
		}
		for _, f := range zr.File {
			if filepath.Base(f.Name) == "export.xml" {
				rc, err := f.Open()
				if err != nil {
					zr.Close()
					return nil, nil, fmt.Errorf("opening export.xml in archive: %w", err)
				}
				return rc, func() error {
					rc.Close()
					return zr.Close()
				}, nil
			}
		}
		zr.Close()
		return nil, nil, fmt.Errorf("no export.xml found in %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening health export: %w", err)
	}
	return f, f.Close, nil
}

// parseHealthRecord pulls type, date and value out of a Record element's
// attributes. Records of other types or with unparseable fields are dropped.
func parseHealthRecord(start xml.StartElement) (recType, date string, value float64, ok bool) {
	var startDate, rawValue string
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "type":
			recType = attr.Value
		case "startDate":
			startDate = attr.Value
		case "value":
			rawValue = attr.Value
		}
	}
	if recType != hkBodyMass && recType != hkBodyFat {
		return "", "", 0, false
	}
	t, err := time.Parse(appleDateLayout, startDate)
	if err != nil {
		return "", "", 0, false
	}
	v, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return "", "", 0, false
	}
	return recType, t.Format("2006-01-02"), v, true
}
