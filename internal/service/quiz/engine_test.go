package quiz

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/store"
)

type fakeResultStore struct {
	results []*domain.SessionResult
}

func (f *fakeResultStore) Record(ctx context.Context, result *domain.SessionResult) error {
	f.results = append(f.results, result)
	return nil
}

func (f *fakeResultStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SessionResult, error) {
	return f.results, nil
}

func (f *fakeResultStore) WithTx(tx *sql.Tx) store.SessionResultStore { return f }

type engineFixture struct {
	results *fakeResultStore
	clk     *clock.Fake
}

func newEngineFixture() *engineFixture {
	return &engineFixture{
		results: &fakeResultStore{},
		clk:     clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func (f *engineFixture) newEngine(t *testing.T, testType TestType, pool []*domain.Word) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), Config{
		UserID:       uuid.New(),
		TestType:     testType,
		QuestionTime: 20 * time.Second,
		Seed:         42,
	}, pool, Deps{
		Results: f.results,
		Clock:   f.clk,
	})
	require.NoError(t, err)
	return engine
}

func TestEngineFullPass(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	pool := defaultPool(t)
	engine := f.newEngine(t, TypeMultipleChoice, pool)

	require.Equal(t, StateActive, engine.State())

	// Answer every question but the last correctly.
	for i := 0; i < len(pool)-1; i++ {
		q := engine.Current()
		require.NotNil(t, q)

		require.NoError(t, engine.SetAnswer(q.Correct[0]))
		outcome, err := engine.Submit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, OutcomeCorrect, outcome)

		_, err = engine.Advance(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, engine.SetAnswer("definitely wrong"))
	f.clk.Advance(3 * time.Minute)
	outcome, err := engine.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, outcome, "advance resolves an unsubmitted draft")

	assert.Equal(t, StateCompleted, engine.State())

	require.Len(t, f.results.results, 1)
	result := f.results.results[0]
	assert.Equal(t, string(TypeMultipleChoice), result.Kind)
	assert.Equal(t, len(pool), result.TotalCount)
	assert.Equal(t, len(pool)-1, result.CorrectCount)
	assert.Equal(t, 1, result.IncorrectCount)
	assert.Equal(t, 3*time.Minute, result.Duration)
	assert.Same(t, result, engine.Result())

	recap := engine.WrongAnswers()
	require.Len(t, recap, 1)
	assert.Equal(t, "definitely wrong", recap[0].Submitted)

	_, err = engine.Advance(context.Background())
	assert.ErrorIs(t, err, ErrQuizCompleted)
	_, err = engine.Submit(context.Background())
	assert.ErrorIs(t, err, ErrQuizCompleted)
}

func TestEngineDoubleSubmitRejected(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	engine := f.newEngine(t, TypeMultipleChoice, defaultPool(t))

	_, err := engine.Submit(context.Background())
	require.NoError(t, err)

	_, err = engine.Submit(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyAnswered)
	assert.ErrorIs(t, engine.SetAnswer("late"), ErrAlreadyAnswered)
}

func TestEngineEmptyPoolCompletesImmediately(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	engine := f.newEngine(t, TypeMultipleChoice, nil)

	assert.Equal(t, StateCompleted, engine.State())
	assert.Nil(t, engine.Current())
	assert.Empty(t, f.results.results, "empty quiz must not record a result")
	assert.Empty(t, f.clk.Countdowns(), "empty quiz must not arm a timer")
}

func TestEngineRejectsUnknownType(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	_, err := NewEngine(context.Background(), Config{
		UserID:   uuid.New(),
		TestType: TestType("essay"),
	}, defaultPool(t), Deps{Results: f.results, Clock: f.clk})
	assert.ErrorIs(t, err, ErrInvalidTestType)
}

func TestEngineExpiryAutoSubmits(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	pool := wordPool(t, [2]string{"haus", "house"}, [2]string{"baum", "tree"})
	engine := f.newEngine(t, TypeFillInBlank, pool)

	countdown := f.clk.LastCountdown()
	require.NotNil(t, countdown)

	// Untouched question times out: resolved as missed, pointer moves on and
	// a fresh countdown is armed.
	countdown.Expire()

	current, total := engine.Progress()
	assert.Equal(t, 1, current)
	assert.Equal(t, 2, total)
	assert.NotSame(t, countdown, f.clk.LastCountdown(), "each question gets its own countdown")

	recap := engine.WrongAnswers()
	require.Len(t, recap, 1)
	assert.Empty(t, recap[0].Submitted)

	// A staged draft is submitted as-is on expiry.
	require.NoError(t, engine.SetAnswer("baum"))
	f.clk.LastCountdown().Expire()

	assert.Equal(t, StateCompleted, engine.State())
	require.Len(t, f.results.results, 1)
	assert.Equal(t, 1, f.results.results[0].CorrectCount)
	assert.Equal(t, 1, f.results.results[0].IncorrectCount)
}

func TestEngineStaleExpiryIgnored(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	engine := f.newEngine(t, TypeMultipleChoice, defaultPool(t))

	first := f.clk.LastCountdown()
	_, err := engine.Advance(context.Background())
	require.NoError(t, err)

	current, _ := engine.Progress()
	require.Equal(t, 1, current)

	// The superseded countdown firing late must not advance the quiz again.
	first.Expire()
	current, _ = engine.Progress()
	assert.Equal(t, 1, current)
}

func TestEngineMultiSelectBreakdown(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	pool := wordPool(t,
		[2]string{"laufen", "run; jog, sprint"},
		[2]string{"gehen", "walk; stroll"},
		[2]string{"baum", "tree"},
		[2]string{"katze", "cat"},
		[2]string{"hund", "dog"},
		[2]string{"wasser", "water"},
	)
	engine := f.newEngine(t, TypeMultiSelect, pool)

	// Full credit: the exact correct set.
	q := engine.Current()
	for _, sense := range q.Correct {
		require.NoError(t, engine.ToggleSelection(sense))
	}
	outcome, err := engine.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCorrect, outcome)
	_, err = engine.Advance(context.Background())
	require.NoError(t, err)

	// Partial credit: one of two correct senses.
	q = engine.Current()
	require.Len(t, q.Correct, 2)
	require.NoError(t, engine.ToggleSelection(q.Correct[0]))
	outcome, err = engine.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeNeutral, outcome)
	_, err = engine.Advance(context.Background())
	require.NoError(t, err)

	// Zero credit: only wrong options.
	q = engine.Current()
	for _, option := range q.Options {
		if normalize(option) != normalize(q.Correct[0]) {
			require.NoError(t, engine.ToggleSelection(option))
			break
		}
	}
	outcome, err = engine.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, outcome)

	// Let the rest time out untouched.
	for engine.State() == StateActive {
		_, err = engine.Advance(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, f.results.results, 1)
	result := f.results.results[0]
	assert.Equal(t, 6, result.TotalCount)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 1, result.FullCreditCount)
	assert.Equal(t, 1, result.PartialCreditCount)
	assert.Equal(t, 4, result.ZeroCreditCount)
	assert.InDelta(t, 1.5, result.Score, 1e-9, "1 full + 1/2 partial")
}

func TestEngineToggleSelectionRemovesOnSecondToggle(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	pool := wordPool(t,
		[2]string{"laufen", "run; jog"},
		[2]string{"baum", "tree"},
		[2]string{"katze", "cat"},
		[2]string{"hund", "dog"},
		[2]string{"wasser", "water"},
	)
	engine := f.newEngine(t, TypeMultiSelect, pool)

	q := engine.Current()
	require.NoError(t, engine.ToggleSelection(q.Correct[0]))
	require.NoError(t, engine.ToggleSelection(q.Correct[0]))

	// Selection is back to empty, so submitting scores zero.
	outcome, err := engine.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeWrong, outcome)
}

func TestEngineToggleSelectionRejectedForSingleAnswer(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	engine := f.newEngine(t, TypeMultipleChoice, defaultPool(t))

	assert.ErrorIs(t, engine.ToggleSelection("house"), ErrSelectionNotAllowed)
}

func TestEngineCloseCancelsTimer(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()
	engine := f.newEngine(t, TypeMultipleChoice, defaultPool(t))

	countdown := f.clk.LastCountdown()
	engine.Close()

	assert.True(t, countdown.Stopped())
	assert.Equal(t, StateCompleted, engine.State())
	assert.Empty(t, f.results.results, "an abandoned quiz records no result")

	// Idempotent.
	engine.Close()

	// A late expiry on the stopped countdown is inert.
	countdown.Expire()
	assert.Empty(t, f.results.results)
}

func TestEngineOnTickReportsRemaining(t *testing.T) {
	t.Parallel()
	f := newEngineFixture()

	var gotIndex int
	var gotRemaining time.Duration
	engine, err := NewEngine(context.Background(), Config{
		UserID:       uuid.New(),
		TestType:     TypeMultipleChoice,
		QuestionTime: 20 * time.Second,
		TickInterval: time.Second,
		Seed:         42,
	}, defaultPool(t), Deps{
		Results: f.results,
		Clock:   f.clk,
		OnTick: func(index int, remaining time.Duration) {
			gotIndex = index
			gotRemaining = remaining
		},
	})
	require.NoError(t, err)
	defer engine.Close()

	f.clk.LastCountdown().Tick()
	assert.Equal(t, 0, gotIndex)
	assert.Equal(t, 19*time.Second, gotRemaining)
}
