package models

import "testing"

// TestGoalProgressPercent covers both goal kinds and the clamp at 100.
func TestGoalProgressPercent(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want int
	}{
		{"legacy partial", Goal{Kind: GoalKindLegacy, TargetWeight: 100, CurrentMaxWeight: 80}, 80},
		{"legacy over target", Goal{Kind: GoalKindLegacy, TargetWeight: 100, CurrentMaxWeight: 120}, 100},
		{"legacy zero target", Goal{Kind: GoalKindLegacy, TargetWeight: 0, CurrentMaxWeight: 80}, 0},
		{"achievement partial", Goal{Kind: GoalKindAchievement, TargetSets: 3, CurrentAchievedSets: 1}, 33},
		{"achievement complete", Goal{Kind: GoalKindAchievement, TargetSets: 3, CurrentAchievedSets: 5}, 100},
		{"achievement zero sets", Goal{Kind: GoalKindAchievement, TargetSets: 0, CurrentAchievedSets: 2}, 0},
	}
	for _, tt := range tests {
		if got := tt.goal.ProgressPercent(); got != tt.want {
			t.Errorf("%s: progress = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// TestGoalIsAchieved checks both the counter path and the explicit flag.
func TestGoalIsAchieved(t *testing.T) {
	g := Goal{Kind: GoalKindAchievement, TargetSets: 3, CurrentAchievedSets: 3}
	if !g.IsAchieved() {
		t.Error("counter at target should be achieved")
	}
	g = Goal{Kind: GoalKindAchievement, TargetSets: 3, CurrentAchievedSets: 0, Achieved: true}
	if !g.IsAchieved() {
		t.Error("explicit flag should win regardless of counter")
	}
	g = Goal{Kind: GoalKindLegacy, TargetWeight: 100, CurrentMaxWeight: 99.5}
	if g.IsAchieved() {
		t.Error("legacy goal below target should not be achieved")
	}
}

// TestGoalRemainingSets never goes negative.
func TestGoalRemainingSets(t *testing.T) {
	g := Goal{Kind: GoalKindAchievement, TargetSets: 3, CurrentAchievedSets: 5}
	if got := g.RemainingSets(); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
	g.CurrentAchievedSets = 1
	if got := g.RemainingSets(); got != 2 {
		t.Errorf("remaining = %d, want 2", got)
	}
}

func TestSetVolume(t *testing.T) {
	s := Set{Weight: 62.5, Reps: 8}
	if got := s.Volume(); got != 500 {
		t.Errorf("volume = %v, want 500", got)
	}
}
