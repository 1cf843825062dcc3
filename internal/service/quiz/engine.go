package quiz

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/events"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// State is the lifecycle state of a quiz.
type State string

// Quiz lifecycle states.
const (
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Config describes the quiz to build.
type Config struct {
	UserID       uuid.UUID
	TestType     TestType
	QuestionTime time.Duration // Per-question countdown, <=0 disables the timer
	TickInterval time.Duration // Countdown tick granularity, defaults to 1s
	Seed         int64         // Question generation seed, 0 seeds from time
}

// Deps are the collaborators a quiz drives. Results and Clock are required;
// the rest are optional.
type Deps struct {
	Results store.SessionResultStore
	Emitter events.Emitter
	Clock   clock.Clock
	Logger  *slog.Logger

	// OnTick, when set, receives the remaining time for the current question
	// on every countdown tick. Called from the countdown goroutine.
	OnTick func(questionIndex int, remaining time.Duration)
}

// Engine walks a generated question set in response to submit and advance
// events. The per-question countdown auto-submits the current draft on
// expiry, so every question resolves exactly once. An internal mutex guards
// against the countdown goroutine racing caller events.
type Engine struct {
	id   uuid.UUID
	cfg  Config
	deps Deps
	log  *slog.Logger

	mu        sync.Mutex
	state     State
	questions []Question
	index     int

	// Draft state for the current question.
	answered  bool
	touched   bool
	draft     string
	selection []string

	// Running counters.
	correct       int
	fullCredit    int
	partialCredit int
	zeroCredit    int
	score         float64
	wrong         []WrongAnswer

	countdown  clock.Countdown
	timerEpoch int

	startedAt time.Time
	result    *domain.SessionResult
}

// NewEngine generates the question set and starts the first question's
// countdown. An empty pool completes the quiz immediately with zero stats.
func NewEngine(ctx context.Context, cfg Config, pool []*domain.Word, deps Deps) (*Engine, error) {
	if deps.Results == nil {
		panic("Results store cannot be nil")
	}
	if deps.Clock == nil {
		panic("Clock cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = deps.Clock.Now().UnixNano()
	}
	questions, err := NewGenerator(rand.New(rand.NewSource(seed))).Generate(pool, cfg.TestType)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		id:        uuid.New(),
		cfg:       cfg,
		deps:      deps,
		log:       deps.Logger.With(slog.String("component", "quiz_engine")),
		state:     StateActive,
		questions: questions,
		startedAt: deps.Clock.Now(),
	}

	log := logger.FromContextOrDefault(ctx, e.log)

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(questions) == 0 {
		e.state = StateCompleted
		log.Debug("empty word pool, quiz completed immediately",
			slog.String("test_type", string(cfg.TestType)))
		return e, nil
	}

	log.Debug("quiz started",
		slog.String("quiz_id", e.id.String()),
		slog.String("test_type", string(cfg.TestType)),
		slog.Int("question_count", len(questions)))
	e.startTimer(ctx)
	return e, nil
}

// ID returns the quiz's unique identifier.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// State returns the quiz's lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Progress returns the current question index and the question count.
func (e *Engine) Progress() (current, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index, len(e.questions)
}

// Current returns a copy of the question under the pointer, or nil when the
// quiz is complete.
func (e *Engine) Current() *Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive || e.index >= len(e.questions) {
		return nil
	}
	q := e.questions[e.index]
	return &q
}

// SetAnswer stages a free-text or chosen answer for the current question.
func (e *Engine) SetAnswer(answer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return ErrQuizCompleted
	}
	if e.answered {
		return ErrAlreadyAnswered
	}
	e.draft = answer
	e.touched = true
	return nil
}

// ToggleSelection adds or removes an option in the current multi-select
// draft.
func (e *Engine) ToggleSelection(option string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return ErrQuizCompleted
	}
	if e.cfg.TestType != TypeMultiSelect {
		return ErrSelectionNotAllowed
	}
	if e.answered {
		return ErrAlreadyAnswered
	}

	e.touched = true
	for i, selected := range e.selection {
		if normalize(selected) == normalize(option) {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			return nil
		}
	}
	e.selection = append(e.selection, option)
	return nil
}

// Submit resolves the current question against the staged draft and returns
// the outcome. The question stays on screen until Advance.
func (e *Engine) Submit(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return "", ErrQuizCompleted
	}
	if e.answered {
		return "", ErrAlreadyAnswered
	}
	return e.resolve(), nil
}

// Advance moves to the next question, resolving the current one first if it
// has not been submitted, and restarts the countdown. When the question set
// is exhausted the quiz completes and records its result. The returned
// outcome is empty when the question was already resolved by Submit.
func (e *Engine) Advance(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive {
		return "", ErrQuizCompleted
	}

	var outcome Outcome
	if !e.answered {
		outcome = e.resolve()
	}
	e.advance(ctx)
	return outcome, nil
}

// Result returns the immutable session result, or nil before completion.
func (e *Engine) Result() *domain.SessionResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// WrongAnswers returns the recap of incorrectly answered questions.
func (e *Engine) WrongAnswers() []WrongAnswer {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]WrongAnswer, len(e.wrong))
	copy(out, e.wrong)
	return out
}

// Close cancels any outstanding countdown. An active quiz is abandoned
// without recording a result. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimer()
	if e.state == StateActive {
		e.state = StateCompleted
	}
}

// resolve scores the current draft and updates the counters. Called with the
// mutex held; the caller has checked state and answered.
func (e *Engine) resolve() Outcome {
	q := &e.questions[e.index]
	e.answered = true

	if e.cfg.TestType == TypeMultiSelect {
		return e.resolveMultiSelect(q)
	}

	if scoreSingle(q, e.draft) {
		e.correct++
		return OutcomeCorrect
	}

	expected := ""
	if len(q.Correct) > 0 {
		expected = q.Correct[0]
	}
	e.wrong = append(e.wrong, WrongAnswer{Question: *q, Submitted: e.draft, Expected: expected})
	if !e.touched {
		return OutcomeMissed
	}
	return OutcomeWrong
}

func (e *Engine) resolveMultiSelect(q *Question) Outcome {
	score, full := scoreMultiSelect(q, e.selection)
	e.score += score

	switch {
	case full:
		e.correct++
		e.fullCredit++
		return OutcomeCorrect
	case score > 0:
		e.partialCredit++
		return OutcomeNeutral
	default:
		e.zeroCredit++
		e.wrong = append(e.wrong, WrongAnswer{
			Question:  *q,
			Submitted: strings.Join(e.selection, ", "),
			Expected:  strings.Join(q.Correct, ", "),
		})
		if !e.touched {
			return OutcomeMissed
		}
		return OutcomeWrong
	}
}

// advance moves the pointer, resets the draft, and either restarts the
// countdown or completes the quiz. Called with the mutex held.
func (e *Engine) advance(ctx context.Context) {
	e.index++
	e.answered = false
	e.touched = false
	e.draft = ""
	e.selection = nil

	if e.index >= len(e.questions) {
		e.complete(ctx)
		return
	}
	e.startTimer(ctx)
}

// complete stops the timer, builds the immutable result, records it, and
// emits the completion event. Persistence failures are logged and skipped.
// Called with the mutex held.
func (e *Engine) complete(ctx context.Context) {
	e.stopTimer()
	e.state = StateCompleted

	now := e.deps.Clock.Now()
	total := len(e.questions)
	result := &domain.SessionResult{
		ID:                 uuid.New(),
		UserID:             e.cfg.UserID,
		Kind:               string(e.cfg.TestType),
		TotalCount:         total,
		CorrectCount:       e.correct,
		IncorrectCount:     total - e.correct,
		FullCreditCount:    e.fullCredit,
		PartialCreditCount: e.partialCredit,
		ZeroCreditCount:    e.zeroCredit,
		Score:              e.score,
		StartedAt:          e.startedAt,
		Duration:           now.Sub(e.startedAt),
		CreatedAt:          now,
	}
	e.result = result

	log := logger.FromContextOrDefault(ctx, e.log)
	if err := e.deps.Results.Record(ctx, result); err != nil {
		log.Warn("failed to record quiz result", slog.String("error", err.Error()))
	}

	if e.deps.Emitter != nil {
		event, err := events.NewSessionEvent(events.TypeSessionCompleted, map[string]any{
			"quiz_id":   e.id.String(),
			"test_type": string(e.cfg.TestType),
			"total":     total,
			"correct":   e.correct,
			"score":     e.score,
		})
		if err == nil {
			if err := e.deps.Emitter.EmitEvent(ctx, event); err != nil {
				log.Warn("failed to emit quiz completed event", slog.String("error", err.Error()))
			}
		}
	}

	log.Info("quiz completed",
		slog.String("quiz_id", e.id.String()),
		slog.String("test_type", string(e.cfg.TestType)),
		slog.Int("total", total),
		slog.Int("correct", e.correct),
		slog.Float64("score", e.score))
}

// startTimer arms the countdown for the current question, cancelling any
// previous one. The epoch guards against a stale expiry firing after the
// question it belonged to has moved on. Called with the mutex held.
func (e *Engine) startTimer(ctx context.Context) {
	e.stopTimer()
	if e.cfg.QuestionTime <= 0 {
		return
	}

	e.timerEpoch++
	epoch := e.timerEpoch
	index := e.index

	var onTick func(remaining time.Duration)
	if e.deps.OnTick != nil {
		tick := e.deps.OnTick
		onTick = func(remaining time.Duration) {
			tick(index, remaining)
		}
	}

	e.countdown = e.deps.Clock.NewCountdown(e.cfg.QuestionTime, e.cfg.TickInterval, onTick, func() {
		e.expire(ctx, epoch)
	})
}

// stopTimer cancels the outstanding countdown, if any. Called with the mutex
// held.
func (e *Engine) stopTimer() {
	if e.countdown != nil {
		e.countdown.Stop()
		e.countdown = nil
	}
}

// expire handles countdown expiry: the current draft is submitted as-is
// (empty for an untouched question) and the quiz moves on. Runs on the
// countdown goroutine.
func (e *Engine) expire(ctx context.Context, epoch int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateActive || epoch != e.timerEpoch {
		return
	}

	log := logger.FromContextOrDefault(ctx, e.log)
	if !e.answered {
		outcome := e.resolve()
		log.Debug("question timed out",
			slog.Int("question_index", e.index),
			slog.String("outcome", string(outcome)))
	}
	e.advance(ctx)
}
