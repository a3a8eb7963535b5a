package storage

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/meltforce/ironlog/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	if err := db.SeedExercises(context.Background()); err != nil {
		t.Fatalf("seeding exercises: %v", err)
	}
	return db
}

func firstExercise(t *testing.T, db *DB) models.Exercise {
	t.Helper()
	exercises, err := db.ListExercises(context.Background())
	if err != nil {
		t.Fatalf("listing exercises: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("no seeded exercises")
	}
	return exercises[0]
}

// TestSeedExercises verifies the catalogue is seeded once and only once.
func TestSeedExercises(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	exercises, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("listing exercises: %v", err)
	}
	if len(exercises) != len(defaultExercises) {
		t.Errorf("seeded %d exercises, want %d", len(exercises), len(defaultExercises))
	}

	if err := db.SeedExercises(ctx); err != nil {
		t.Fatalf("re-seeding: %v", err)
	}
	again, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("listing exercises: %v", err)
	}
	if len(again) != len(exercises) {
		t.Errorf("re-seed changed count: %d -> %d", len(exercises), len(again))
	}
}

// TestAddSetDerivesOneRM verifies the stored one-rep max comes from the
// Epley formula, never from the caller.
func TestAddSetDerivesOneRM(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	set, err := db.AddSet(ctx, "2025-06-01", ex.ID, 1, 100, 5)
	if err != nil {
		t.Fatalf("adding set: %v", err)
	}
	want := 100 * (1 + 5.0/30)
	if math.Abs(set.OneRM-want) > 1e-9 {
		t.Errorf("OneRM = %v, want %v", set.OneRM, want)
	}

	single, err := db.AddSet(ctx, "2025-06-01", ex.ID, 2, 120, 1)
	if err != nil {
		t.Fatalf("adding single: %v", err)
	}
	if single.OneRM != 120 {
		t.Errorf("single-rep OneRM = %v, want 120", single.OneRM)
	}
}

// TestAddSetsNumbersSequentially verifies batch inserts continue the set
// numbering for the day.
func TestAddSetsNumbersSequentially(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	if _, err := db.AddSet(ctx, "2025-06-01", ex.ID, 1, 80, 8); err != nil {
		t.Fatalf("adding set: %v", err)
	}
	sets, err := db.AddSets(ctx, "2025-06-01", ex.ID, [][2]float64{{85, 6}, {90, 4}})
	if err != nil {
		t.Fatalf("adding sets: %v", err)
	}
	if sets[0].SetNumber != 2 || sets[1].SetNumber != 3 {
		t.Errorf("set numbers = %d, %d, want 2, 3", sets[0].SetNumber, sets[1].SetNumber)
	}
}

// TestAchievementGoalLifecycle walks the full scenario: create a goal, log
// qualifying sets, refresh, and observe achievement.
func TestAchievementGoalLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	goal, err := db.AddGoal(ctx, models.Goal{
		ExerciseID:   ex.ID,
		Kind:         models.GoalKindAchievement,
		TargetWeight: 100,
		TargetReps:   5,
		TargetSets:   3,
		TargetMonth:  "2025-06",
	})
	if err != nil {
		t.Fatalf("adding goal: %v", err)
	}
	if goal.ProgressPercent() != 0 {
		t.Errorf("fresh goal progress = %d, want 0", goal.ProgressPercent())
	}

	if _, err := db.AddSets(ctx, "2025-06-02", ex.ID, [][2]float64{{100, 5}, {100, 5}, {100, 5}}); err != nil {
		t.Fatalf("logging sets: %v", err)
	}

	updated, err := db.RefreshGoalsFromHistory(ctx)
	if err != nil {
		t.Fatalf("refreshing goals: %v", err)
	}
	if updated != 1 {
		t.Errorf("refreshed %d goals, want 1", updated)
	}

	goal, err = db.GetGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("getting goal: %v", err)
	}
	if goal.CurrentAchievedSets != 3 {
		t.Errorf("achieved sets = %d, want 3", goal.CurrentAchievedSets)
	}
	if goal.ProgressPercent() != 100 {
		t.Errorf("progress = %d, want 100", goal.ProgressPercent())
	}
	if !goal.IsAchieved() {
		t.Error("goal should be achieved")
	}

	achievable, err := db.AchievableGoals(ctx)
	if err != nil {
		t.Fatalf("querying achievable: %v", err)
	}
	if len(achievable) != 1 || achievable[0].ID != goal.ID {
		t.Errorf("achievable = %+v, want the one goal", achievable)
	}
}

// TestRefreshIsImprovementOnly verifies counters never move down even when
// later history would compute a lower value.
func TestRefreshIsImprovementOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	goal, err := db.AddGoal(ctx, models.Goal{
		ExerciseID:   ex.ID,
		Kind:         models.GoalKindLegacy,
		TargetWeight: 150,
		TargetMonth:  "2025-06",
	})
	if err != nil {
		t.Fatalf("adding goal: %v", err)
	}

	set, err := db.AddSet(ctx, "2025-06-01", ex.ID, 1, 100, 5)
	if err != nil {
		t.Fatalf("adding set: %v", err)
	}
	if _, err := db.RefreshGoalsFromHistory(ctx); err != nil {
		t.Fatalf("refreshing: %v", err)
	}
	goal, err = db.GetGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("getting goal: %v", err)
	}
	if math.Abs(goal.CurrentMaxWeight-set.OneRM) > 1e-9 {
		t.Errorf("current max = %v, want %v", goal.CurrentMaxWeight, set.OneRM)
	}

	// Delete the heavy set; a refresh must not lower the counter.
	if err := db.DeleteSet(ctx, set.ID); err != nil {
		t.Fatalf("deleting set: %v", err)
	}
	if _, err := db.RefreshGoalsFromHistory(ctx); err != nil {
		t.Fatalf("refreshing: %v", err)
	}
	after, err := db.GetGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("getting goal: %v", err)
	}
	if after.CurrentMaxWeight != goal.CurrentMaxWeight {
		t.Errorf("current max dropped from %v to %v", goal.CurrentMaxWeight, after.CurrentMaxWeight)
	}
}

// TestDuplicateGoal verifies the one-goal-per-exercise-per-month rule.
func TestDuplicateGoal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	g := models.Goal{ExerciseID: ex.ID, TargetWeight: 100, TargetMonth: "2025-06"}
	if _, err := db.AddGoal(ctx, g); err != nil {
		t.Fatalf("adding goal: %v", err)
	}
	_, err := db.AddGoal(ctx, g)
	if !errors.Is(err, ErrDuplicateGoal) {
		t.Errorf("duplicate goal error = %v, want ErrDuplicateGoal", err)
	}
}

// TestAlmostThereGoals verifies the remaining-sets window.
func TestAlmostThereGoals(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	goal, err := db.AddGoal(ctx, models.Goal{
		ExerciseID: ex.ID, TargetWeight: 100, TargetReps: 5, TargetSets: 3, TargetMonth: "2025-06",
	})
	if err != nil {
		t.Fatalf("adding goal: %v", err)
	}

	if _, err := db.AddSet(ctx, "2025-06-02", ex.ID, 1, 100, 5); err != nil {
		t.Fatalf("adding set: %v", err)
	}
	if _, err := db.RefreshGoalsFromHistory(ctx); err != nil {
		t.Fatalf("refreshing: %v", err)
	}

	almost, err := db.AlmostThereGoals(ctx)
	if err != nil {
		t.Fatalf("querying almost-there: %v", err)
	}
	if len(almost) != 1 || almost[0].ID != goal.ID {
		t.Fatalf("almost-there = %+v, want the one goal", almost)
	}
	if got := almost[0].RemainingSets(); got != 2 {
		t.Errorf("remaining sets = %d, want 2", got)
	}
}

// TestLegacyGoalMigration applies only the base schema, writes old-shape
// goal rows, then migrates forward and checks the conversion.
func TestLegacyGoalMigration(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "legacy.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("loading migrations: %v", err)
	}
	driver, err := sqlite.WithInstance(db.SQL, &sqlite.Config{})
	if err != nil {
		t.Fatalf("creating driver: %v", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		t.Fatalf("creating migrator: %v", err)
	}
	if err := m.Steps(1); err != nil {
		t.Fatalf("applying base schema: %v", err)
	}

	if _, err := db.SQL.ExecContext(ctx,
		`INSERT INTO exercises (name, variation, category) VALUES ('Bench Press', 'Barbell', 'chest')`); err != nil {
		t.Fatalf("inserting exercise: %v", err)
	}
	if _, err := db.SQL.ExecContext(ctx,
		`INSERT INTO goals (exercise_id, target_weight, target_month, current_weight, achieved_at)
		 VALUES (1, 100, '2025-06', 80, NULL), (1, 90, '2025-05', 90, '2025-05-20')`); err != nil {
		t.Fatalf("inserting legacy goals: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("migrating forward: %v", err)
	}

	goals, err := db.ListGoals(ctx, GoalFilter{})
	if err != nil {
		t.Fatalf("listing goals: %v", err)
	}
	if len(goals) != 2 {
		t.Fatalf("migrated %d goals, want 2", len(goals))
	}
	for _, g := range goals {
		if g.Kind != models.GoalKindLegacy {
			t.Errorf("goal %d kind = %q, want legacy", g.ID, g.Kind)
		}
		if g.TargetReps != 1 || g.TargetSets != 1 {
			t.Errorf("goal %d targets = %dx%d, want 1x1", g.ID, g.TargetReps, g.TargetSets)
		}
	}
	var byMonth = map[string]models.Goal{}
	for _, g := range goals {
		byMonth[g.TargetMonth] = g
	}
	if g := byMonth["2025-06"]; g.CurrentMaxWeight != 80 || g.Achieved {
		t.Errorf("open goal converted wrong: %+v", g)
	}
	if g := byMonth["2025-05"]; !g.Achieved {
		t.Errorf("achieved goal lost its flag: %+v", g)
	}
}

// TestUpsertBodyStatsMerges verifies per-date merge of partial snapshots.
func TestUpsertBodyStatsMerges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	weight := 80.5
	if _, err := db.UpsertBodyStats(ctx, models.BodyStats{Date: "2025-06-01", Weight: &weight}); err != nil {
		t.Fatalf("inserting stats: %v", err)
	}
	fat := 18.2
	if _, err := db.UpsertBodyStats(ctx, models.BodyStats{Date: "2025-06-01", BodyFatPercentage: &fat}); err != nil {
		t.Fatalf("merging stats: %v", err)
	}

	got, err := db.GetBodyStats(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("getting stats: %v", err)
	}
	if got.Weight == nil || *got.Weight != weight {
		t.Errorf("weight lost in merge: %+v", got)
	}
	if got.BodyFatPercentage == nil || *got.BodyFatPercentage != fat {
		t.Errorf("body fat not merged: %+v", got)
	}
	if got.MuscleMass != nil {
		t.Errorf("muscle mass should stay nil, got %v", *got.MuscleMass)
	}
}

// TestBodyGoalBaselineCapture verifies the baseline is taken from the latest
// snapshot at creation, and stays nil without one.
func TestBodyGoalBaselineCapture(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	target := 75.0
	bare, err := db.AddBodyGoal(ctx, models.BodyCompositionGoal{TargetWeight: &target, TargetDate: "2025-12-31"})
	if err != nil {
		t.Fatalf("adding goal without stats: %v", err)
	}
	if bare.BaselineWeight != nil {
		t.Errorf("baseline should be nil without snapshots, got %v", *bare.BaselineWeight)
	}

	weight := 82.0
	if _, err := db.UpsertBodyStats(ctx, models.BodyStats{Date: "2025-06-01", Weight: &weight}); err != nil {
		t.Fatalf("inserting stats: %v", err)
	}
	tracked, err := db.AddBodyGoal(ctx, models.BodyCompositionGoal{TargetWeight: &target, TargetDate: "2025-12-31"})
	if err != nil {
		t.Fatalf("adding goal with stats: %v", err)
	}
	if tracked.BaselineWeight == nil || *tracked.BaselineWeight != weight {
		t.Errorf("baseline not captured: %+v", tracked)
	}
}

// TestUpdateBodyGoal checks that target edits persist and baselines survive.
func TestUpdateBodyGoal(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	weight := 82.0
	if _, err := db.UpsertBodyStats(ctx, models.BodyStats{Date: "2025-06-01", Weight: &weight}); err != nil {
		t.Fatalf("inserting stats: %v", err)
	}
	target := 75.0
	g, err := db.AddBodyGoal(ctx, models.BodyCompositionGoal{Name: "cut", TargetWeight: &target, TargetDate: "2025-12-31"})
	if err != nil {
		t.Fatalf("adding goal: %v", err)
	}

	newTarget := 73.0
	g.TargetWeight = &newTarget
	g.TargetDate = "2026-03-31"
	if err := db.UpdateBodyGoal(ctx, g); err != nil {
		t.Fatalf("updating goal: %v", err)
	}

	got, err := db.GetBodyGoal(ctx, g.ID)
	if err != nil {
		t.Fatalf("getting goal: %v", err)
	}
	if got.TargetWeight == nil || *got.TargetWeight != newTarget {
		t.Errorf("target weight = %v, want %.1f", got.TargetWeight, newTarget)
	}
	if got.TargetDate != "2026-03-31" {
		t.Errorf("target date = %s, want 2026-03-31", got.TargetDate)
	}
	if got.BaselineWeight == nil || *got.BaselineWeight != weight {
		t.Errorf("baseline changed by update: %+v", got)
	}

	missing := models.BodyCompositionGoal{ID: 9999, TargetWeight: &newTarget}
	if err := db.UpdateBodyGoal(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating missing goal: err = %v, want ErrNotFound", err)
	}
}

// TestHistoryFilter verifies filtering and paging of the set history.
func TestHistoryFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	exercises, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatalf("listing exercises: %v", err)
	}
	a, b := exercises[0], exercises[1]

	if _, err := db.AddSet(ctx, "2025-06-01", a.ID, 1, 100, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddSet(ctx, "2025-06-02", a.ID, 1, 102.5, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddSet(ctx, "2025-06-02", b.ID, 1, 60, 10); err != nil {
		t.Fatal(err)
	}

	entries, err := db.History(ctx, HistoryFilter{ExerciseID: a.ID})
	if err != nil {
		t.Fatalf("querying history: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("filtered history = %d entries, want 2", len(entries))
	}
	if entries[0].Date != "2025-06-02" {
		t.Errorf("history not newest first: %+v", entries[0])
	}

	count, err := db.HistoryCount(ctx, HistoryFilter{From: "2025-06-02"})
	if err != nil {
		t.Fatalf("counting history: %v", err)
	}
	if count != 2 {
		t.Errorf("count from 06-02 = %d, want 2", count)
	}

	page, err := db.History(ctx, HistoryFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("paging history: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("page size = %d, want 1", len(page))
	}
}

// TestGetDataStats verifies totals and streak wiring.
func TestGetDataStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)

	today := time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	for _, date := range []string{"2025-06-01", "2025-06-02", "2025-06-03"} {
		if _, err := db.AddSet(ctx, date, ex.ID, 1, 100, 5); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := db.GetDataStats(ctx, today)
	if err != nil {
		t.Fatalf("getting stats: %v", err)
	}
	if stats.TotalWorkouts != 3 || stats.TotalSets != 3 {
		t.Errorf("totals = %d workouts, %d sets, want 3 and 3", stats.TotalWorkouts, stats.TotalSets)
	}
	if stats.TotalVolume != 1500 {
		t.Errorf("volume = %v, want 1500", stats.TotalVolume)
	}
	if stats.AvgSetsPerWorkout != 1 {
		t.Errorf("avg sets per workout = %v, want 1", stats.AvgSetsPerWorkout)
	}
	if stats.AvgWeight != 100 {
		t.Errorf("avg weight = %v, want 100", stats.AvgWeight)
	}
	if stats.WorkoutsThisMonth != 3 {
		t.Errorf("workouts this month = %d, want 3", stats.WorkoutsThisMonth)
	}
	if stats.CurrentStreak != 3 {
		t.Errorf("current streak = %d, want 3", stats.CurrentStreak)
	}
	if stats.MaxStreak != 3 {
		t.Errorf("max streak = %d, want 3", stats.MaxStreak)
	}
}

// TestBestRecords verifies per-exercise bests ordered by one-rep max.
func TestBestRecords(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	exercises, err := db.ListExercises(ctx)
	if err != nil {
		t.Fatal(err)
	}
	a, b := exercises[0], exercises[1]

	if _, err := db.AddSet(ctx, "2025-06-01", a.ID, 1, 100, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddSet(ctx, "2025-06-02", a.ID, 1, 110, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := db.AddSet(ctx, "2025-06-01", b.ID, 1, 140, 1); err != nil {
		t.Fatal(err)
	}

	records, err := db.BestRecords(ctx, 10)
	if err != nil {
		t.Fatalf("querying best records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ExerciseID != b.ID {
		t.Errorf("strongest first: got exercise %d, want %d", records[0].ExerciseID, b.ID)
	}
	// independent maxima: heaviest weight and most reps come from
	// different sets of the same exercise
	if records[1].MaxWeight != 110 || records[1].MaxReps != 5 {
		t.Errorf("maxima = %.1fkg, %d reps, want 110 and 5", records[1].MaxWeight, records[1].MaxReps)
	}
}

// TestBackupRestore verifies the backup file round-trips with its checksum.
func TestBackupRestore(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ex := firstExercise(t, db)
	if _, err := db.AddSet(ctx, "2025-06-01", ex.ID, 1, 100, 5); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	info, err := db.Backup(ctx, dir)
	if err != nil {
		t.Fatalf("creating backup: %v", err)
	}
	if info.Checksum == "" || info.SizeBytes == 0 {
		t.Errorf("backup info incomplete: %+v", info)
	}

	list, err := ListBackups(dir)
	if err != nil {
		t.Fatalf("listing backups: %v", err)
	}
	if len(list) != 1 || list[0].Checksum != info.Checksum {
		t.Errorf("listed backups = %+v, want the created one", list)
	}

	restored := filepath.Join(t.TempDir(), "restored.db")
	if err := RestoreBackup(info.Path, restored, false); err != nil {
		t.Fatalf("restoring backup: %v", err)
	}
	rdb, err := Open(ctx, restored)
	if err != nil {
		t.Fatalf("opening restored db: %v", err)
	}
	defer rdb.Close()
	count, err := rdb.HistoryCount(ctx, HistoryFilter{})
	if err != nil {
		t.Fatalf("counting restored history: %v", err)
	}
	if count != 1 {
		t.Errorf("restored history count = %d, want 1", count)
	}

	if err := RestoreBackup(info.Path, restored, false); err == nil {
		t.Error("restore over existing db without force should fail")
	}
}

// TestImportLogLifecycle verifies begin/finish bookkeeping.
func TestImportLogLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.BeginImportLog(ctx, "csv", "bench.csv")
	if err != nil {
		t.Fatalf("beginning import log: %v", err)
	}
	if err := db.FinishImportLog(ctx, id, 12, 2, 0, nil); err != nil {
		t.Fatalf("finishing import log: %v", err)
	}

	logs, err := db.QueryImportLogs(ctx, 10)
	if err != nil {
		t.Fatalf("querying import logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	l := logs[0]
	if l.Status != "success" || l.Imported != 12 || l.Skipped != 2 {
		t.Errorf("log = %+v, want success with 12 imported, 2 skipped", l)
	}
	if l.FinishedAt == nil {
		t.Error("finished_at not set")
	}
}
