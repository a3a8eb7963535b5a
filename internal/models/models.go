package models

import (
	"fmt"
	"time"
)

// GoalKind tags the two goal generations that can live in the canonical
// goals table. Legacy goals track a single weight threshold; achievement
// goals track weight x reps x sets.
type GoalKind string

const (
	GoalKindLegacy      GoalKind = "legacy"
	GoalKindAchievement GoalKind = "achievement"
)

// Exercise is immutable reference data seeded at first run.
type Exercise struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Variation string `json:"variation"`
	Category  string `json:"category"`
}

// DisplayName is the human-readable "name (variation)" form.
func (e Exercise) DisplayName() string {
	return e.Name + " (" + e.Variation + ")"
}

// Workout is a training session keyed by calendar date.
type Workout struct {
	ID    int64  `json:"id"`
	Date  string `json:"date"` // YYYY-MM-DD
	Notes string `json:"notes,omitempty"`
}

// Set is one performed set. OneRM is always derived from (Weight, Reps) at
// insert time and stored, never supplied by callers.
type Set struct {
	ID         int64   `json:"id"`
	WorkoutID  int64   `json:"workout_id"`
	ExerciseID int64   `json:"exercise_id"`
	SetNumber  int     `json:"set_number"`
	Weight     float64 `json:"weight"`
	Reps       int     `json:"reps"`
	OneRM      float64 `json:"one_rm"`
}

// Volume is weight * reps, the per-set mechanical work proxy.
func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// Goal is the canonical tagged-variant goal row. Legacy-kind goals carry
// TargetReps=1 and TargetSets=1 and measure progress against
// CurrentMaxWeight; achievement-kind goals measure progress in achieved sets.
type Goal struct {
	ID                  int64     `json:"id"`
	ExerciseID          int64     `json:"exercise_id"`
	Kind                GoalKind  `json:"kind"`
	TargetWeight        float64   `json:"target_weight"`
	TargetReps          int       `json:"target_reps"`
	TargetSets          int       `json:"target_sets"`
	CurrentAchievedSets int       `json:"current_achieved_sets"`
	CurrentMaxWeight    float64   `json:"current_max_weight"`
	TargetMonth         string    `json:"target_month"` // YYYY-MM
	Achieved            bool      `json:"achieved"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ProgressPercent is the integer progress toward the goal, clamped to
// [0, 100]. Legacy goals compare current max weight to the target weight;
// achievement goals compare achieved sets to target sets.
func (g Goal) ProgressPercent() int {
	var p float64
	switch g.Kind {
	case GoalKindLegacy:
		if g.TargetWeight <= 0 {
			return 0
		}
		p = g.CurrentMaxWeight / g.TargetWeight * 100
	default:
		if g.TargetSets <= 0 {
			return 0
		}
		p = float64(g.CurrentAchievedSets) / float64(g.TargetSets) * 100
	}
	if p < 0 {
		return 0
	}
	if p >= 100 {
		return 100
	}
	return int(p)
}

// IsAchieved reports whether the goal has been reached, either by the
// tracked counter crossing its target or by the explicit achieved flag.
func (g Goal) IsAchieved() bool {
	if g.Achieved {
		return true
	}
	switch g.Kind {
	case GoalKindLegacy:
		return g.TargetWeight > 0 && g.CurrentMaxWeight >= g.TargetWeight
	default:
		return g.TargetSets > 0 && g.CurrentAchievedSets >= g.TargetSets
	}
}

// RemainingSets is how many qualifying sets are still needed. Always zero
// for legacy goals.
func (g Goal) RemainingSets() int {
	if g.Kind == GoalKindLegacy {
		return 0
	}
	r := g.TargetSets - g.CurrentAchievedSets
	if r < 0 {
		return 0
	}
	return r
}

// MarkAchieved forces the goal into its terminal state.
func (g *Goal) MarkAchieved() {
	g.Achieved = true
	switch g.Kind {
	case GoalKindLegacy:
		g.CurrentMaxWeight = g.TargetWeight
	default:
		g.CurrentAchievedSets = g.TargetSets
	}
}

// TargetDescription is the short "100kg x 5 reps x 3 sets" form shown in
// listings.
func (g Goal) TargetDescription() string {
	if g.Kind == GoalKindLegacy {
		return fmt.Sprintf("%.1fkg", g.TargetWeight)
	}
	return fmt.Sprintf("%.1fkg x %d reps x %d sets", g.TargetWeight, g.TargetReps, g.TargetSets)
}

// BodyStats is the per-date body-composition snapshot. Each field is
// independently optional.
type BodyStats struct {
	ID                int64    `json:"id"`
	Date              string   `json:"date"` // YYYY-MM-DD
	Weight            *float64 `json:"weight,omitempty"`
	BodyFatPercentage *float64 `json:"body_fat_percentage,omitempty"`
	MuscleMass        *float64 `json:"muscle_mass,omitempty"`
}

// BodyCompositionGoal targets any combination of weight, muscle mass,
// body fat and BMI. Baselines are explicit: a nil baseline means no baseline
// was recorded, and dimension progress that needs one is reported as
// unavailable rather than synthesized.
type BodyCompositionGoal struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	TargetWeight     *float64 `json:"target_weight,omitempty"`
	TargetMuscleMass *float64 `json:"target_muscle_mass,omitempty"`
	TargetBodyFat    *float64 `json:"target_body_fat,omitempty"`
	TargetBMI        *float64 `json:"target_bmi,omitempty"`

	CurrentWeight     *float64 `json:"current_weight,omitempty"`
	CurrentMuscleMass *float64 `json:"current_muscle_mass,omitempty"`
	CurrentBodyFat    *float64 `json:"current_body_fat,omitempty"`
	CurrentBMI        *float64 `json:"current_bmi,omitempty"`

	BaselineWeight     *float64 `json:"baseline_weight,omitempty"`
	BaselineMuscleMass *float64 `json:"baseline_muscle_mass,omitempty"`
	BaselineBodyFat    *float64 `json:"baseline_body_fat,omitempty"`
	BaselineBMI        *float64 `json:"baseline_bmi,omitempty"`

	TargetDate string    `json:"target_date"` // YYYY-MM-DD
	Achieved   bool      `json:"achieved"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasTarget reports whether at least one dimension is targeted.
func (g BodyCompositionGoal) HasTarget() bool {
	return g.TargetWeight != nil || g.TargetMuscleMass != nil ||
		g.TargetBodyFat != nil || g.TargetBMI != nil
}

// Overdue reports whether the target date has passed without achievement.
func (g BodyCompositionGoal) Overdue(today string) bool {
	return !g.Achieved && g.TargetDate != "" && g.TargetDate < today
}

// ImportLog records one importer run.
type ImportLog struct {
	ID         string     `json:"id"` // uuid
	Source     string     `json:"source"`
	File       string     `json:"file"`
	Status     string     `json:"status"` // running, success, error
	Imported   int        `json:"imported"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
