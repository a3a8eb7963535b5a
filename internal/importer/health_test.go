package importer

import (
	"archive/zip"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const healthExportXML = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <Record type="HKQuantityTypeIdentifierBodyMass" sourceName="Health" unit="kg" startDate="2025-06-01 07:30:00 +0900" endDate="2025-06-01 07:30:00 +0900" value="80.5"/>
 <Record type="HKQuantityTypeIdentifierBodyFatPercentage" sourceName="Health" unit="%" startDate="2025-06-01 07:31:00 +0900" endDate="2025-06-01 07:31:00 +0900" value="0.182"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" sourceName="Watch" unit="count/min" startDate="2025-06-01 08:00:00 +0900" endDate="2025-06-01 08:00:00 +0900" value="62"/>
 <Record type="HKQuantityTypeIdentifierBodyMass" sourceName="Health" unit="kg" startDate="2025-06-02 07:30:00 +0900" endDate="2025-06-02 07:30:00 +0900" value="80.1"/>
 <Record type="HKQuantityTypeIdentifierBodyMass" sourceName="Health" unit="kg" startDate="bogus" endDate="bogus" value="79.9"/>
</HealthData>
`

// TestHealthImport streams a small export and checks the merged snapshots.
func TestHealthImport(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	imp := NewHealthImporter(db, discardLogger())

	path := writeFixture(t, "export.xml", healthExportXML)
	res, err := imp.Import(ctx, path)
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	if res.Imported != 3 {
		t.Errorf("imported = %d, want 3 (heart rate and bogus date dropped)", res.Imported)
	}

	day1, err := db.GetBodyStats(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("getting day one: %v", err)
	}
	if day1.Weight == nil || *day1.Weight != 80.5 {
		t.Errorf("day one weight = %v, want 80.5", day1.Weight)
	}
	// fraction converted to percent and merged into the same snapshot
	if day1.BodyFatPercentage == nil || math.Abs(*day1.BodyFatPercentage-18.2) > 1e-9 {
		t.Errorf("day one body fat = %v, want 18.2", day1.BodyFatPercentage)
	}

	day2, err := db.GetBodyStats(ctx, "2025-06-02")
	if err != nil {
		t.Fatalf("getting day two: %v", err)
	}
	if day2.Weight == nil || *day2.Weight != 80.1 {
		t.Errorf("day two weight = %v, want 80.1", day2.Weight)
	}
	if day2.BodyFatPercentage != nil {
		t.Errorf("day two body fat should be nil, got %v", *day2.BodyFatPercentage)
	}
}

// TestHealthImportZip imports the same export packaged the way Health
// actually hands it out, as export.zip with the xml nested inside.
func TestHealthImportZip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	imp := NewHealthImporter(db, discardLogger())

	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating zip: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("apple_health_export/export.xml")
	if err != nil {
		t.Fatalf("adding export.xml: %v", err)
	}
	if _, err := w.Write([]byte(healthExportXML)); err != nil {
		t.Fatalf("writing export.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing zip file: %v", err)
	}

	res, err := imp.Import(ctx, path)
	if err != nil {
		t.Fatalf("importing: %v", err)
	}
	if res.Imported != 3 {
		t.Errorf("imported = %d, want 3", res.Imported)
	}
	if _, err := db.GetBodyStats(ctx, "2025-06-01"); err != nil {
		t.Errorf("day one snapshot missing after zip import: %v", err)
	}
}
