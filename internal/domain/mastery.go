package domain

// MasteryLevel is a coarse classification of how well a word is known,
// derived from the study count and running accuracy.
type MasteryLevel string

// Mastery levels, ordered from least to most known.
const (
	MasteryNew       MasteryLevel = "new"
	MasteryLearning  MasteryLevel = "learning"
	MasteryReviewing MasteryLevel = "reviewing"
	MasteryMastered  MasteryLevel = "mastered"
)

// Classification thresholds. A word must have been studied at least the
// minimum number of times AND meet the accuracy bar to reach a level.
const (
	masteredMinStudied   = 10
	masteredMinAccuracy  = 0.9
	reviewingMinStudied  = 5
	reviewingMinAccuracy = 0.6
)

// Order returns the position of the level in the new < learning < reviewing
// < mastered ordering. Unknown values sort before new.
func (m MasteryLevel) Order() int {
	switch m {
	case MasteryNew:
		return 0
	case MasteryLearning:
		return 1
	case MasteryReviewing:
		return 2
	case MasteryMastered:
		return 3
	default:
		return -1
	}
}

// IsValid reports whether the level is one of the defined mastery levels.
func (m MasteryLevel) IsValid() bool {
	return m.Order() >= 0
}

// ClassifyMastery computes the mastery level from a word's study history.
// It is a pure function: the level is fully determined by the counters, so a
// word can drop back to learning after a run of failed reviews lowers its
// accuracy.
func ClassifyMastery(timesStudied, timesCorrect int) MasteryLevel {
	if timesStudied <= 0 {
		return MasteryNew
	}

	accuracy := float64(timesCorrect) / float64(timesStudied)

	if timesStudied >= masteredMinStudied && accuracy >= masteredMinAccuracy {
		return MasteryMastered
	}

	if timesStudied >= reviewingMinStudied && accuracy >= reviewingMinAccuracy {
		return MasteryReviewing
	}

	return MasteryLearning
}
