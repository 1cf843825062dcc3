package quiz

// Outcome is the tagged result of resolving one question. The rendering
// layer maps it to visuals; the engine only computes the tag.
type Outcome string

// Question outcomes.
const (
	// OutcomeCorrect is full credit.
	OutcomeCorrect Outcome = "correct"

	// OutcomeWrong is zero credit on a submitted answer.
	OutcomeWrong Outcome = "wrong"

	// OutcomeMissed is a question whose timer expired untouched.
	OutcomeMissed Outcome = "missed"

	// OutcomeNeutral is multi-select partial credit.
	OutcomeNeutral Outcome = "neutral"
)

// WrongAnswer records a question answered incorrectly, for the end-of-quiz
// recap.
type WrongAnswer struct {
	Question  Question `json:"question"`
	Submitted string   `json:"submitted"`
	Expected  string   `json:"expected"`
}

// scoreSingle reports whether a free-text or chosen answer matches the single
// correct answer, case-insensitively with surrounding whitespace ignored.
func scoreSingle(q *Question, submitted string) bool {
	if len(q.Correct) == 0 {
		return false
	}
	return normalize(submitted) == normalize(q.Correct[0])
}

// scoreMultiSelect computes the partial-credit score for a selection set:
// max(0, correctSelected - incorrectSelected) / |correct|. Full credit
// requires every correct option selected and nothing else.
func scoreMultiSelect(q *Question, selected []string) (score float64, full bool) {
	correct := q.correctSet()
	if len(correct) == 0 {
		return 0, false
	}

	var correctSelected, incorrectSelected int
	seen := make(map[string]struct{}, len(selected))
	for _, option := range selected {
		key := normalize(option)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := correct[key]; ok {
			correctSelected++
		} else {
			incorrectSelected++
		}
	}

	net := correctSelected - incorrectSelected
	if net < 0 {
		net = 0
	}
	score = float64(net) / float64(len(correct))
	full = correctSelected == len(correct) && incorrectSelected == 0
	return score, full
}
