package review

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/domain/srs"
	"github.com/wordloop/wordloop-api/internal/events"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// Config describes the session to build.
type Config struct {
	UserID        uuid.UUID
	Mode          Mode
	Category      string // Optional filter, empty matches all
	SessionLimit  int    // Maximum queue length
	MinStudyCount int    // Learning-mode threshold for "still unlearned"
}

// Deps are the collaborators a session drives. Words, Progress, Results,
// Scheduler, and Clock are required; Achievements and Emitter are optional.
type Deps struct {
	Words        store.WordStore
	Progress     store.ProgressStore
	Results      store.SessionResultStore
	Scheduler    srs.Service
	Achievements AchievementEvaluator
	Emitter      events.Emitter
	Clock        clock.Clock
	Logger       *slog.Logger
}

// Session walks a queue of words in response to swipe events. All methods
// are safe for use from a single logical caller; an internal mutex guards
// against accidental concurrent use from transport goroutines.
type Session struct {
	id    uuid.UUID
	cfg   Config
	deps  Deps
	log   *slog.Logger
	mu    sync.Mutex
	state State

	queue     []*domain.Word
	pointer   int
	history   []snapshot
	stats     Stats
	mastered  int // Words that crossed into mastered this session, net of undos
	startedAt time.Time
	duration  time.Duration
}

// NewSession builds a session queue for the configured mode and returns the
// session in the Active state, or directly Completed when the pool is empty.
// A failing selection query degrades to an empty pool rather than an error.
func NewSession(ctx context.Context, cfg Config, deps Deps) (*Session, error) {
	if deps.Words == nil {
		panic("Words store cannot be nil")
	}
	if deps.Progress == nil {
		panic("Progress store cannot be nil")
	}
	if deps.Results == nil {
		panic("Results store cannot be nil")
	}
	if deps.Scheduler == nil {
		panic("Scheduler cannot be nil")
	}
	if deps.Clock == nil {
		panic("Clock cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if !cfg.Mode.IsValid() {
		return nil, ErrInvalidMode
	}

	s := &Session{
		id:        uuid.New(),
		cfg:       cfg,
		deps:      deps,
		log:       deps.Logger.With(slog.String("component", "review_session")),
		state:     StateLoading,
		startedAt: deps.Clock.Now(),
	}

	log := logger.FromContextOrDefault(ctx, s.log)
	now := s.startedAt

	var (
		queue []*domain.Word
		err   error
	)
	switch cfg.Mode {
	case ModeLearning:
		queue, err = deps.Words.FetchForLearning(ctx, cfg.UserID, cfg.MinStudyCount, cfg.SessionLimit, cfg.Category)
	case ModeReview:
		queue, err = deps.Words.FetchDue(ctx, cfg.UserID, now, cfg.Category, cfg.SessionLimit)
	}
	if err != nil {
		// Query failures degrade to an empty pool; the session completes
		// immediately with zero stats instead of surfacing an error.
		log.Warn("word selection query failed, starting empty session",
			slog.String("error", err.Error()),
			slog.String("mode", string(cfg.Mode)),
			slog.String("user_id", cfg.UserID.String()))
		queue = nil
	}

	s.queue = queue
	if len(queue) == 0 {
		s.state = StateCompleted
		log.Debug("no words selected, session completed immediately",
			slog.String("mode", string(cfg.Mode)))
	} else {
		s.state = StateActive
		log.Debug("review session started",
			slog.String("session_id", s.id.String()),
			slog.String("mode", string(cfg.Mode)),
			slog.Int("queue_length", len(queue)))
	}

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a copy of the running counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Progress returns the pointer position and queue length.
func (s *Session) Progress() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer, len(s.queue)
}

// Current returns the word under the pointer, or nil when the session is
// complete.
func (s *Session) Current() *domain.Word {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || s.pointer >= len(s.queue) {
		return nil
	}
	return s.queue[s.pointer]
}

// Advance applies a swipe to the current card. Left, right, and down are
// advancing events: they snapshot the word, reschedule it, update history and
// stats, persist, and move the pointer, completing the session when the queue
// is exhausted. Up toggles the favorite flag only.
func (s *Session) Advance(ctx context.Context, direction Direction) (Effects, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !direction.IsValid() {
		return Effects{}, ErrInvalidDirection
	}
	if s.state != StateActive {
		return Effects{}, ErrSessionCompleted
	}

	log := logger.FromContextOrDefault(ctx, s.log)
	word := s.queue[s.pointer]

	if direction == DirectionUp {
		word.IsFavorite = !word.IsFavorite
		word.UpdatedAt = s.deps.Clock.Now()
		s.persistWord(ctx, log, word)
		return Effects{}, nil
	}

	quality := qualityFor(direction)
	now := s.deps.Clock.Now()

	s.history = append(s.history, snapshotOf(word, direction))

	next, due, err := s.deps.Scheduler.CalculateNext(srs.ReviewState{
		EaseFactor:  word.EaseFactor,
		Interval:    word.IntervalDays,
		Repetitions: word.Repetitions,
	}, quality, now)
	if err != nil {
		// The direction-to-quality mapping keeps grades in range, so this
		// only fires on a programming error.
		s.history = s.history[:len(s.history)-1]
		return Effects{}, err
	}

	word.EaseFactor = next.EaseFactor
	word.IntervalDays = next.Interval
	word.Repetitions = next.Repetitions
	word.NextReviewAt = &due

	correct := quality.Passing()
	before := word.Mastery
	word.RecordStudy(correct, now)

	var effects Effects
	if before != domain.MasteryMastered && word.Mastery == domain.MasteryMastered {
		effects.JustMastered = true
		s.mastered++
		s.emit(ctx, log, events.TypeWordMastered, map[string]string{
			"word_id": word.ID.String(),
			"term":    word.Term,
		})
	}

	s.persistWord(ctx, log, word)

	if correct {
		s.stats.Known++
	} else {
		s.stats.Unknown++
	}
	s.stats.Total++
	s.pointer++

	if s.pointer >= len(s.queue) {
		s.complete(ctx, log, &effects)
	}

	return effects, nil
}

// Undo reverts the most recent advancing event: the popped snapshot is
// written back onto the word, the matching stat increment is reversed, and
// the pointer moves back. Requests with nothing to undo are silent no-ops.
func (s *Session) Undo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.pointer == 0 || len(s.history) == 0 {
		return false
	}

	log := logger.FromContextOrDefault(ctx, s.log)

	snap := s.history[len(s.history)-1]
	word := s.queue[s.pointer-1]
	unmastered := word.Mastery == domain.MasteryMastered && snap.mastery != domain.MasteryMastered
	if err := snap.restore(word); err != nil {
		log.Error("undo snapshot mismatch", slog.String("error", err.Error()))
		return false
	}
	s.history = s.history[:len(s.history)-1]

	if unmastered {
		s.mastered--
	}
	if snap.direction == DirectionLeft {
		s.stats.Unknown--
	} else {
		s.stats.Known--
	}
	s.stats.Total--
	s.pointer--

	s.persistWord(ctx, log, word)
	return true
}

// Duration returns the session length. Before completion it is the elapsed
// time so far.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted {
		return s.duration
	}
	return s.deps.Clock.Now().Sub(s.startedAt)
}

// complete runs the completion pipeline: aggregates, result record,
// achievements, events. Persistence failures are logged and skipped; the
// in-memory session state stays authoritative. Called with the mutex held.
func (s *Session) complete(ctx context.Context, log *slog.Logger, effects *Effects) {
	now := s.deps.Clock.Now()
	s.duration = now.Sub(s.startedAt)
	s.state = StateCompleted
	effects.Completed = true

	accuracy := s.stats.Accuracy()

	// User stats carry the daily goal, so fetch them first.
	userStats, err := s.deps.Progress.GetOrCreateUserStats(ctx, s.cfg.UserID)
	if err != nil {
		log.Warn("failed to load user stats", slog.String("error", err.Error()))
		userStats = nil
	}

	goal := domain.DefaultDailyGoal
	if userStats != nil && userStats.DailyGoal > 0 {
		goal = userStats.DailyGoal
	}

	var daily *domain.DailyProgress
	daily, err = s.deps.Progress.GetOrCreateDaily(ctx, s.cfg.UserID, now)
	if err != nil {
		log.Warn("failed to load daily progress", slog.String("error", err.Error()))
		daily = nil
	}

	if daily != nil {
		metBefore := daily.GoalMet(goal)
		daily.RecordSession(s.cfg.Mode == ModeLearning, s.stats.Total, accuracy, now)
		if !metBefore && daily.GoalMet(goal) {
			effects.GoalReached = true
			s.emit(ctx, log, events.TypeDailyGoalReached, map[string]int{
				"goal":  goal,
				"total": daily.Total(),
			})
		}
		if err := s.deps.Progress.SaveDaily(ctx, daily); err != nil {
			log.Warn("failed to save daily progress", slog.String("error", err.Error()))
		}
	}

	if userStats != nil {
		userStats.RecordStudyDay(now)
		userStats.TotalSessions++
		userStats.WordsMastered += s.mastered
		if err := s.deps.Progress.SaveUserStats(ctx, userStats); err != nil {
			log.Warn("failed to save user stats", slog.String("error", err.Error()))
		}
	}

	result := &domain.SessionResult{
		ID:             uuid.New(),
		UserID:         s.cfg.UserID,
		Kind:           string(s.cfg.Mode),
		TotalCount:     s.stats.Total,
		CorrectCount:   s.stats.Known,
		IncorrectCount: s.stats.Unknown,
		StartedAt:      s.startedAt,
		Duration:       s.duration,
		CreatedAt:      now,
	}
	if err := s.deps.Results.Record(ctx, result); err != nil {
		log.Warn("failed to record session result", slog.String("error", err.Error()))
	}

	if s.deps.Achievements != nil && userStats != nil {
		effects.Achievements = s.deps.Achievements.Evaluate(ctx, userStats, SessionContext{
			Mode:     s.cfg.Mode,
			Result:   result,
			Progress: daily,
		})
	}

	s.emit(ctx, log, events.TypeSessionCompleted, map[string]any{
		"session_id": s.id.String(),
		"mode":       string(s.cfg.Mode),
		"total":      s.stats.Total,
		"known":      s.stats.Known,
		"unknown":    s.stats.Unknown,
	})

	log.Info("review session completed",
		slog.String("session_id", s.id.String()),
		slog.String("mode", string(s.cfg.Mode)),
		slog.Int("total", s.stats.Total),
		slog.Int("known", s.stats.Known),
		slog.Int("unknown", s.stats.Unknown),
		slog.Duration("duration", s.duration))
}

// persistWord saves a mutated word, tolerating write failures: the in-memory
// word remains authoritative for the rest of the session.
func (s *Session) persistWord(ctx context.Context, log *slog.Logger, word *domain.Word) {
	if err := s.deps.Words.Update(ctx, word); err != nil {
		log.Warn("failed to persist word, continuing with in-memory state",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
	}
}

func (s *Session) emit(ctx context.Context, log *slog.Logger, eventType string, payload any) {
	if s.deps.Emitter == nil {
		return
	}
	event, err := events.NewSessionEvent(eventType, payload)
	if err != nil {
		log.Warn("failed to build session event", slog.String("error", err.Error()))
		return
	}
	if err := s.deps.Emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit session event",
			slog.String("error", err.Error()),
			slog.String("event_type", eventType))
	}
}

// qualityFor maps an advancing swipe to its SM-2 grade.
func qualityFor(direction Direction) srs.Quality {
	switch direction {
	case DirectionLeft:
		return srs.QualityBlackout
	case DirectionDown:
		return srs.QualityPerfect
	default:
		return srs.QualityGood
	}
}
