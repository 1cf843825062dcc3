package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSingle(t *testing.T) {
	t.Parallel()

	q := &Question{Correct: []string{"house"}}

	tests := []struct {
		name      string
		submitted string
		want      bool
	}{
		{name: "exact match", submitted: "house", want: true},
		{name: "case insensitive", submitted: "HOUSE", want: true},
		{name: "trims whitespace", submitted: "  house  ", want: true},
		{name: "wrong answer", submitted: "tree", want: false},
		{name: "empty submission", submitted: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scoreSingle(q, tt.submitted))
		})
	}
}

func TestScoreMultiSelect(t *testing.T) {
	t.Parallel()

	q := &Question{Correct: []string{"a", "b", "c"}}

	tests := []struct {
		name      string
		selected  []string
		wantScore float64
		wantFull  bool
	}{
		{name: "all correct", selected: []string{"a", "b", "c"}, wantScore: 1, wantFull: true},
		{name: "subset earns partial credit", selected: []string{"a", "b"}, wantScore: 2.0 / 3.0},
		{name: "wrong pick cancels a right one", selected: []string{"a", "b", "x"}, wantScore: 1.0 / 3.0},
		{name: "all wrong", selected: []string{"x", "y"}, wantScore: 0},
		{name: "net negative clamps to zero", selected: []string{"a", "x", "y"}, wantScore: 0},
		{name: "empty selection", selected: nil, wantScore: 0},
		{name: "full set plus extra is not full credit", selected: []string{"a", "b", "c", "x"}, wantScore: 2.0 / 3.0},
		{name: "duplicate selections count once", selected: []string{"a", "A", "b"}, wantScore: 2.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, full := scoreMultiSelect(q, tt.selected)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantFull, full)
		})
	}
}
