package srs

import (
	"math"
	"time"
)

// Quality is the 0-5 self-reported recall grade that drives the scheduler.
type Quality int

// Recall grades, from complete blackout to perfect recall.
const (
	QualityBlackout Quality = 0 // No recall at all
	QualityWrong    Quality = 1 // Wrong, but recognized the answer
	QualityFamiliar Quality = 2 // Wrong, but the answer felt familiar
	QualityHard     Quality = 3 // Correct with serious effort
	QualityGood     Quality = 4 // Correct after some hesitation
	QualityPerfect  Quality = 5 // Correct without hesitation
)

// passingThreshold is the lowest grade that counts as a successful repetition.
const passingThreshold = QualityHard

// IsValid reports whether the quality is inside the documented 0-5 domain.
func (q Quality) IsValid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passing reports whether the grade counts as a successful repetition.
// Quality 3 ("hard but passing") increments repetitions exactly like 4 and 5;
// only the ease-factor gain differs.
func (q Quality) Passing() bool {
	return q >= passingThreshold
}

// ReviewState is the scheduling state of a single item: the SM-2 triple of
// ease factor, current interval in days, and consecutive successful
// repetitions.
type ReviewState struct {
	EaseFactor  float64
	Interval    int
	Repetitions int
}

// nextEaseFactor applies the SM-2 ease-factor update for the given grade:
// EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)), floored at params.MinEaseFactor.
// The update applies on failures too, which is what lets repeatedly failed
// items converge on the floor.
func nextEaseFactor(ef float64, quality Quality, params *Params) float64 {
	q := float64(quality)
	newEF := ef + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// nextState computes the full SM-2 transition for a validated quality grade.
// The interval growth for later repetitions multiplies by the ease factor the
// item carried into the review, not the freshly adjusted one.
func nextState(state ReviewState, quality Quality, now time.Time, params *Params) (ReviewState, time.Time) {
	next := ReviewState{
		EaseFactor: nextEaseFactor(state.EaseFactor, quality, params),
	}

	if !quality.Passing() {
		next.Repetitions = 0
		next.Interval = params.FailureInterval
	} else {
		next.Repetitions = state.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.Interval = params.FirstInterval
		case 2:
			next.Interval = params.SecondInterval
		default:
			next.Interval = int(math.Round(float64(state.Interval) * state.EaseFactor))
		}
	}

	return next, now.AddDate(0, 0, next.Interval)
}
