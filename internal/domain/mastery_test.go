package domain

import "testing"

func TestClassifyMastery(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		studied  int
		correct  int
		expected MasteryLevel
	}{
		{
			name:     "never studied is new",
			studied:  0,
			correct:  0,
			expected: MasteryNew,
		},
		{
			name:     "single study is learning",
			studied:  1,
			correct:  1,
			expected: MasteryLearning,
		},
		{
			name:     "enough studies but low accuracy stays learning",
			studied:  8,
			correct:  3, // 37.5%
			expected: MasteryLearning,
		},
		{
			name:     "five studies at 60 percent is reviewing",
			studied:  5,
			correct:  3,
			expected: MasteryReviewing,
		},
		{
			name:     "ten studies at 90 percent is mastered",
			studied:  10,
			correct:  9,
			expected: MasteryMastered,
		},
		{
			name:     "ten studies at 80 percent is only reviewing",
			studied:  10,
			correct:  8,
			expected: MasteryReviewing,
		},
		{
			name:     "mastered word drops back after failures",
			studied:  20,
			correct:  10, // 50%, below the reviewing bar too
			expected: MasteryLearning,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyMastery(tc.studied, tc.correct)
			if got != tc.expected {
				t.Errorf("ClassifyMastery(%d, %d) = %q, want %q",
					tc.studied, tc.correct, got, tc.expected)
			}
		})
	}
}

func TestMasteryLevelOrder(t *testing.T) {
	t.Parallel()

	ordered := []MasteryLevel{MasteryNew, MasteryLearning, MasteryReviewing, MasteryMastered}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Order() >= ordered[i].Order() {
			t.Errorf("expected %q < %q in mastery ordering", ordered[i-1], ordered[i])
		}
	}

	if MasteryLevel("bogus").IsValid() {
		t.Error("expected unknown mastery level to be invalid")
	}
}
