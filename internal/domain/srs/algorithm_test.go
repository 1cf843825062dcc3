package srs

import (
	"testing"
	"time"
)

func TestNextStateFailureReset(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	// Any failing grade resets repetitions and drops the interval to one
	// day, regardless of how mature the item was.
	for _, q := range []Quality{QualityBlackout, QualityWrong, QualityFamiliar} {
		state := ReviewState{EaseFactor: 2.8, Interval: 30, Repetitions: 5}
		next, due := nextState(state, q, now, params)

		if next.Repetitions != 0 {
			t.Errorf("quality %d: expected repetitions reset to 0, got %d", q, next.Repetitions)
		}
		if next.Interval != 1 {
			t.Errorf("quality %d: expected interval 1, got %d", q, next.Interval)
		}
		if want := now.AddDate(0, 0, 1); !due.Equal(want) {
			t.Errorf("quality %d: expected due %v, got %v", q, want, due)
		}
	}
}

func TestNextStateSuccessIncrementsRepetitions(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	for _, q := range []Quality{QualityHard, QualityGood, QualityPerfect} {
		state := ReviewState{EaseFactor: 2.5, Interval: 6, Repetitions: 2}
		next, _ := nextState(state, q, now, params)

		if next.Repetitions != 3 {
			t.Errorf("quality %d: expected repetitions 3, got %d", q, next.Repetitions)
		}
	}
}

func TestNextStateIntervalProgression(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	testCases := []struct {
		name         string
		state        ReviewState
		quality      Quality
		wantInterval int
		wantReps     int
	}{
		{
			name:         "first successful review",
			state:        ReviewState{EaseFactor: 2.5, Interval: 0, Repetitions: 0},
			quality:      QualityGood,
			wantInterval: 1,
			wantReps:     1,
		},
		{
			name:         "second successful review",
			state:        ReviewState{EaseFactor: 2.5, Interval: 1, Repetitions: 1},
			quality:      QualityGood,
			wantInterval: 6,
			wantReps:     2,
		},
		{
			name:         "third review multiplies by the incoming ease factor",
			state:        ReviewState{EaseFactor: 2.5, Interval: 6, Repetitions: 2},
			quality:      QualityGood,
			wantInterval: 15, // round(6 * 2.5)
			wantReps:     3,
		},
		{
			name:         "perfect recall on a mature item",
			state:        ReviewState{EaseFactor: 3.0, Interval: 10, Repetitions: 3},
			quality:      QualityPerfect,
			wantInterval: 30, // round(10 * 3.0), not the post-review factor
			wantReps:     4,
		},
		{
			name:         "failure on a mature item",
			state:        ReviewState{EaseFactor: 2.8, Interval: 30, Repetitions: 5},
			quality:      QualityFamiliar,
			wantInterval: 1,
			wantReps:     0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			next, due := nextState(tc.state, tc.quality, now, params)

			if next.Interval != tc.wantInterval {
				t.Errorf("expected interval %d, got %d", tc.wantInterval, next.Interval)
			}
			if next.Repetitions != tc.wantReps {
				t.Errorf("expected repetitions %d, got %d", tc.wantReps, next.Repetitions)
			}
			if want := now.AddDate(0, 0, tc.wantInterval); !due.Equal(want) {
				t.Errorf("expected due date %v, got %v", want, due)
			}
		})
	}
}

func TestNextEaseFactor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  Quality
		expected float64
	}{
		{
			name:     "perfect recall raises the ease factor",
			current:  2.5,
			quality:  QualityPerfect,
			expected: 2.6, // 2.5 + 0.1
		},
		{
			name:     "good recall leaves the ease factor unchanged",
			current:  2.5,
			quality:  QualityGood,
			expected: 2.5, // 2.5 + (0.1 - 1*(0.08 + 0.02))
		},
		{
			name:     "hard recall lowers the ease factor slightly",
			current:  2.5,
			quality:  QualityHard,
			expected: 2.36, // 2.5 + (0.1 - 2*(0.08 + 2*0.02))
		},
		{
			name:     "blackout lowers the ease factor sharply",
			current:  2.5,
			quality:  QualityBlackout,
			expected: 1.7, // 2.5 + (0.1 - 5*(0.08 + 5*0.02))
		},
		{
			name:     "floor is enforced",
			current:  1.35,
			quality:  QualityBlackout,
			expected: 1.3,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextEaseFactor(tc.current, tc.quality, params)

			epsilon := 0.0001
			if got < tc.expected-epsilon || got > tc.expected+epsilon {
				t.Errorf("expected ease factor %f, got %f", tc.expected, got)
			}
		})
	}
}

func TestEaseFactorNeverDropsBelowFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	state := ReviewState{EaseFactor: 2.5, Interval: 1, Repetitions: 0}
	for i := 0; i < 50; i++ {
		state, _ = nextState(state, QualityBlackout, now, params)
		if state.EaseFactor < params.MinEaseFactor {
			t.Fatalf("ease factor %f dropped below floor %f after %d failures",
				state.EaseFactor, params.MinEaseFactor, i+1)
		}
	}

	if state.EaseFactor != params.MinEaseFactor {
		t.Errorf("expected ease factor to converge on the floor, got %f", state.EaseFactor)
	}
}

func TestConcreteFirstReview(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	now := time.Now().UTC()

	next, _ := nextState(ReviewState{EaseFactor: 2.5}, QualityGood, now, params)

	if next.Interval != 1 {
		t.Errorf("expected interval 1, got %d", next.Interval)
	}
	if next.Repetitions != 1 {
		t.Errorf("expected repetitions 1, got %d", next.Repetitions)
	}
	if next.EaseFactor < 1.3 {
		t.Errorf("expected ease factor >= 1.3, got %f", next.EaseFactor)
	}
}
