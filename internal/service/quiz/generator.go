package quiz

import (
	"math/rand"
	"strings"
	"time"

	"github.com/wordloop/wordloop-api/internal/domain"
)

const (
	// distractorCount is how many wrong options accompany the correct one in
	// choice-based questions.
	distractorCount = 3

	// maxCorrectSenses caps the multi-select correct set.
	maxCorrectSenses = 3

	// multiSelect questions aim for this many total options.
	minMultiSelectOptions = 5
	maxMultiSelectOptions = 6
)

// Generator builds question sets from a word pool. Randomness is injected so
// tests can fix the sequence.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil rng gets a time-seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// Generate builds one question per pool word for the given test type. Pools
// smaller than the desired option count degrade to fewer options rather than
// failing.
func (g *Generator) Generate(pool []*domain.Word, testType TestType) ([]Question, error) {
	if !testType.IsValid() {
		return nil, ErrInvalidTestType
	}

	questions := make([]Question, 0, len(pool))
	for i, word := range pool {
		var q Question
		switch testType {
		case TypeMultipleChoice:
			q = g.multipleChoice(pool, i)
		case TypeFillInBlank:
			q = g.fillInBlank(word)
		case TypeListening:
			q = g.listening(pool, i)
		case TypeTrueFalse:
			q = g.trueFalse(pool, i)
		case TypeMultiSelect:
			q = g.multiSelect(pool, i)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// multipleChoice asks for the translation of a term among sampled
// translations of other pool words.
func (g *Generator) multipleChoice(pool []*domain.Word, target int) Question {
	word := pool[target]
	options := g.withDistractors(pool, target, word.Translation, distractorCount,
		func(w *domain.Word) string { return w.Translation })
	return Question{
		WordID:  word.ID,
		Prompt:  word.Term,
		Options: options,
		Correct: []string{word.Translation},
	}
}

// fillInBlank asks for the term itself, free text, matched case-insensitively.
func (g *Generator) fillInBlank(word *domain.Word) Question {
	return Question{
		WordID:  word.ID,
		Prompt:  word.Translation,
		Correct: []string{strings.ToLower(word.Term)},
	}
}

// listening uses the multiple-choice mechanics against the term: the caller
// plays the term's audio and the options are candidate terms.
func (g *Generator) listening(pool []*domain.Word, target int) Question {
	word := pool[target]
	options := g.withDistractors(pool, target, word.Term, distractorCount,
		func(w *domain.Word) string { return w.Term })
	return Question{
		WordID:  word.ID,
		Prompt:  word.Term,
		Options: options,
		Correct: []string{word.Term},
	}
}

// trueFalse pairs the term with its own translation or a random other
// translation, 50/50.
func (g *Generator) trueFalse(pool []*domain.Word, target int) Question {
	word := pool[target]
	statement := word.Translation
	correct := AnswerTrue

	others := g.sample(pool, target, 1, func(w *domain.Word) string { return w.Translation }, nil)
	if len(others) > 0 && g.rng.Intn(2) == 0 {
		statement = others[0]
		correct = AnswerFalse
	}

	return Question{
		WordID:    word.ID,
		Prompt:    word.Term,
		Options:   []string{AnswerTrue, AnswerFalse},
		Correct:   []string{correct},
		Statement: statement,
	}
}

// multiSelect splits the translation into senses (up to three) as the correct
// set and pads the options with distractor translations.
func (g *Generator) multiSelect(pool []*domain.Word, target int) Question {
	word := pool[target]
	correct := splitSenses(word.Translation)

	total := minMultiSelectOptions + g.rng.Intn(maxMultiSelectOptions-minMultiSelectOptions+1)
	if total < len(correct) {
		total = len(correct)
	}

	taken := make(map[string]struct{}, total)
	for _, sense := range correct {
		taken[normalize(sense)] = struct{}{}
	}

	options := make([]string, 0, total)
	options = append(options, correct...)
	options = append(options, g.sample(pool, target, total-len(correct),
		func(w *domain.Word) string { return w.Translation }, taken)...)

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		WordID:  word.ID,
		Prompt:  word.Term,
		Options: options,
		Correct: correct,
	}
}

// withDistractors returns the correct answer plus up to count sampled
// distractors, shuffled.
func (g *Generator) withDistractors(pool []*domain.Word, target int, correct string, count int, value func(*domain.Word) string) []string {
	taken := map[string]struct{}{normalize(correct): {}}
	options := append([]string{correct}, g.sample(pool, target, count, value, taken)...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// sample draws up to count distinct values from pool words other than the
// target, skipping values already in taken. Small pools yield fewer values.
func (g *Generator) sample(pool []*domain.Word, target, count int, value func(*domain.Word) string, taken map[string]struct{}) []string {
	if count <= 0 {
		return nil
	}
	if taken == nil {
		taken = make(map[string]struct{})
	}

	indexes := g.rng.Perm(len(pool))
	out := make([]string, 0, count)
	for _, i := range indexes {
		if i == target {
			continue
		}
		v := strings.TrimSpace(value(pool[i]))
		if v == "" {
			continue
		}
		if _, dup := taken[normalize(v)]; dup {
			continue
		}
		taken[normalize(v)] = struct{}{}
		out = append(out, v)
		if len(out) == count {
			break
		}
	}
	return out
}

// splitSenses breaks a translation into its semicolon- or comma-separated
// senses, keeping at most maxCorrectSenses. A translation without separators
// is a single sense.
func splitSenses(translation string) []string {
	fields := strings.FieldsFunc(translation, func(r rune) bool {
		return r == ';' || r == ','
	})

	seen := make(map[string]struct{}, len(fields))
	senses := make([]string, 0, maxCorrectSenses)
	for _, field := range fields {
		sense := strings.TrimSpace(field)
		if sense == "" {
			continue
		}
		if _, dup := seen[normalize(sense)]; dup {
			continue
		}
		seen[normalize(sense)] = struct{}{}
		senses = append(senses, sense)
		if len(senses) == maxCorrectSenses {
			break
		}
	}

	if len(senses) == 0 {
		return []string{strings.TrimSpace(translation)}
	}
	return senses
}
