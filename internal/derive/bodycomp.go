package derive

import (
	"errors"

	"github.com/meltforce/ironlog/internal/models"
)

// ErrNoBaseline is returned for a dimension whose progress needs a recorded
// baseline that the goal does not have. It is a distinct state, not zero
// progress: callers surface "no baseline recorded" instead of a number.
var ErrNoBaseline = errors.New("no baseline recorded")

// DimensionProgress computes progress toward a single target, clamped to
// [0, 100].
//
// increase-style dimensions (muscle mass) are done when current >= target;
// decrease-style dimensions (body fat) are done when current <= target;
// directional dimensions (weight, BMI) take their direction from where the
// target sits relative to the baseline.
func dimensionProgress(baseline, current, target float64, direction int) int {
	if direction == 0 {
		// direction derived from target vs baseline
		switch {
		case target > baseline:
			direction = 1
		case target < baseline:
			direction = -1
		default:
			return 100
		}
	}

	var moved, required float64
	if direction > 0 {
		if current >= target {
			return 100
		}
		moved = current - baseline
		required = target - baseline
	} else {
		if current <= target {
			return 100
		}
		moved = baseline - current
		required = baseline - target
	}
	if required <= 0 {
		return 100
	}
	p := moved / required * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// WeightProgress computes directional weight-goal progress. The direction
// comes from comparing the target to the baseline, so both are required.
func WeightProgress(g models.BodyCompositionGoal) (int, error) {
	if g.TargetWeight == nil || g.CurrentWeight == nil {
		return 0, ErrNoBaseline
	}
	if g.BaselineWeight == nil {
		return 0, ErrNoBaseline
	}
	return dimensionProgress(*g.BaselineWeight, *g.CurrentWeight, *g.TargetWeight, 0), nil
}

// MuscleProgress treats muscle mass as an increase goal: already at or above
// the target means 100.
func MuscleProgress(g models.BodyCompositionGoal) (int, error) {
	if g.TargetMuscleMass == nil || g.CurrentMuscleMass == nil {
		return 0, ErrNoBaseline
	}
	if *g.CurrentMuscleMass >= *g.TargetMuscleMass {
		return 100, nil
	}
	if g.BaselineMuscleMass == nil {
		return 0, ErrNoBaseline
	}
	return dimensionProgress(*g.BaselineMuscleMass, *g.CurrentMuscleMass, *g.TargetMuscleMass, 1), nil
}

// BodyFatProgress treats body fat as a decrease goal: already at or below
// the target means 100.
func BodyFatProgress(g models.BodyCompositionGoal) (int, error) {
	if g.TargetBodyFat == nil || g.CurrentBodyFat == nil {
		return 0, ErrNoBaseline
	}
	if *g.CurrentBodyFat <= *g.TargetBodyFat {
		return 100, nil
	}
	if g.BaselineBodyFat == nil {
		return 0, ErrNoBaseline
	}
	return dimensionProgress(*g.BaselineBodyFat, *g.CurrentBodyFat, *g.TargetBodyFat, -1), nil
}

// BMIProgress is directional like weight.
func BMIProgress(g models.BodyCompositionGoal) (int, error) {
	if g.TargetBMI == nil || g.CurrentBMI == nil {
		return 0, ErrNoBaseline
	}
	if g.BaselineBMI == nil {
		return 0, ErrNoBaseline
	}
	return dimensionProgress(*g.BaselineBMI, *g.CurrentBMI, *g.TargetBMI, 0), nil
}

// OverallProgress averages, unweighted, the progress of every targeted
// dimension that can be computed. Dimensions without a baseline are left
// out of the average; if no targeted dimension is computable the overall
// progress itself is unavailable.
func OverallProgress(g models.BodyCompositionGoal) (int, error) {
	type dim func(models.BodyCompositionGoal) (int, error)
	targeted := []struct {
		set bool
		fn  dim
	}{
		{g.TargetWeight != nil, WeightProgress},
		{g.TargetMuscleMass != nil, MuscleProgress},
		{g.TargetBodyFat != nil, BodyFatProgress},
		{g.TargetBMI != nil, BMIProgress},
	}

	sum, n := 0, 0
	for _, d := range targeted {
		if !d.set {
			continue
		}
		p, err := d.fn(g)
		if err != nil {
			continue
		}
		sum += p
		n++
	}
	if n == 0 {
		return 0, ErrNoBaseline
	}
	return sum / n, nil
}
