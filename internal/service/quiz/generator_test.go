package quiz

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordloop/wordloop-api/internal/domain"
)

func wordPool(t *testing.T, pairs ...[2]string) []*domain.Word {
	t.Helper()
	userID := uuid.New()
	pool := make([]*domain.Word, 0, len(pairs))
	for _, pair := range pairs {
		word, err := domain.NewWord(userID, pair[0], pair[1], "")
		require.NoError(t, err)
		pool = append(pool, word)
	}
	return pool
}

func defaultPool(t *testing.T) []*domain.Word {
	t.Helper()
	return wordPool(t,
		[2]string{"haus", "house"},
		[2]string{"baum", "tree"},
		[2]string{"katze", "cat"},
		[2]string{"hund", "dog"},
		[2]string{"wasser", "water"},
		[2]string{"brot", "bread"},
	)
}

func seededGenerator() *Generator {
	return NewGenerator(rand.New(rand.NewSource(42)))
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	t.Parallel()
	_, err := seededGenerator().Generate(defaultPool(t), TestType("essay"))
	assert.ErrorIs(t, err, ErrInvalidTestType)
}

func TestGenerateMultipleChoice(t *testing.T) {
	t.Parallel()
	pool := defaultPool(t)
	questions, err := seededGenerator().Generate(pool, TypeMultipleChoice)
	require.NoError(t, err)
	require.Len(t, questions, len(pool))

	for i, q := range questions {
		assert.Equal(t, pool[i].ID, q.WordID)
		assert.Equal(t, pool[i].Term, q.Prompt)
		require.Equal(t, []string{pool[i].Translation}, q.Correct)

		assert.Len(t, q.Options, distractorCount+1)
		assert.Contains(t, q.Options, pool[i].Translation)

		seen := make(map[string]struct{})
		for _, option := range q.Options {
			_, dup := seen[option]
			assert.False(t, dup, "options must be distinct")
			seen[option] = struct{}{}
		}
	}
}

func TestGenerateListeningUsesTerms(t *testing.T) {
	t.Parallel()
	pool := defaultPool(t)
	questions, err := seededGenerator().Generate(pool, TypeListening)
	require.NoError(t, err)

	for i, q := range questions {
		assert.Equal(t, []string{pool[i].Term}, q.Correct)
		assert.Contains(t, q.Options, pool[i].Term)
		for _, option := range q.Options {
			assert.NotEqual(t, pool[i].Translation, option, "listening distractors are terms, not translations")
		}
	}
}

func TestGenerateFillInBlank(t *testing.T) {
	t.Parallel()
	pool := wordPool(t, [2]string{"Haus", "house"})
	questions, err := seededGenerator().Generate(pool, TypeFillInBlank)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	q := questions[0]
	assert.Equal(t, "house", q.Prompt)
	assert.Empty(t, q.Options, "free-text recall has no options")
	assert.Equal(t, []string{"haus"}, q.Correct, "correct answer is the lower-cased term")
}

func TestGenerateTrueFalse(t *testing.T) {
	t.Parallel()
	pool := defaultPool(t)
	questions, err := seededGenerator().Generate(pool, TypeTrueFalse)
	require.NoError(t, err)

	for i, q := range questions {
		require.Len(t, q.Correct, 1)
		assert.Equal(t, []string{AnswerTrue, AnswerFalse}, q.Options)
		if q.Statement == pool[i].Translation {
			assert.Equal(t, AnswerTrue, q.Correct[0])
		} else {
			assert.Equal(t, AnswerFalse, q.Correct[0])
		}
	}
}

func TestGenerateMultiSelectSplitsSenses(t *testing.T) {
	t.Parallel()
	pool := wordPool(t,
		[2]string{"laufen", "run; jog, sprint; dash"},
		[2]string{"baum", "tree"},
		[2]string{"katze", "cat"},
		[2]string{"hund", "dog"},
		[2]string{"wasser", "water"},
		[2]string{"brot", "bread"},
	)
	questions, err := seededGenerator().Generate(pool, TypeMultiSelect)
	require.NoError(t, err)

	q := questions[0]
	assert.ElementsMatch(t, []string{"run", "jog", "sprint"}, q.Correct, "at most three senses become the correct set")
	for _, sense := range q.Correct {
		assert.Contains(t, q.Options, sense, "correct set must be a subset of the options")
	}
	assert.GreaterOrEqual(t, len(q.Options), minMultiSelectOptions)
	assert.LessOrEqual(t, len(q.Options), maxMultiSelectOptions)
}

func TestGenerateDegradesOnSmallPool(t *testing.T) {
	t.Parallel()
	pool := wordPool(t, [2]string{"haus", "house"}, [2]string{"baum", "tree"})

	questions, err := seededGenerator().Generate(pool, TypeMultipleChoice)
	require.NoError(t, err)
	assert.Len(t, questions[0].Options, 2, "small pools yield fewer options, not an error")

	questions, err = seededGenerator().Generate(pool, TypeMultiSelect)
	require.NoError(t, err)
	assert.NotEmpty(t, questions[0].Options)
	assert.Contains(t, questions[0].Options, "house")
}

func TestSplitSenses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		translation string
		want        []string
	}{
		{name: "single sense", translation: "house", want: []string{"house"}},
		{name: "semicolons and commas", translation: "run; jog, sprint", want: []string{"run", "jog", "sprint"}},
		{name: "caps at three", translation: "a, b, c, d, e", want: []string{"a", "b", "c"}},
		{name: "dedupes", translation: "run; Run, jog", want: []string{"run", "jog"}},
		{name: "trims whitespace", translation: "  run ;  jog  ", want: []string{"run", "jog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitSenses(tt.translation))
		})
	}
}
