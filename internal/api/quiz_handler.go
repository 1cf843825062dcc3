package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wordloop/wordloop-api/internal/api/middleware"
	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/events"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/service/quiz"
	"github.com/wordloop/wordloop-api/internal/store"
)

// QuizHandler handles quiz API requests. Quizzes live in the in-memory
// registry between requests; their countdowns run server-side.
type QuizHandler struct {
	registry  *SessionRegistry
	words     store.WordStore
	results   store.SessionResultStore
	emitter   events.Emitter
	clock     clock.Clock
	study     config.StudyConfig
	logger    *slog.Logger
	validator *validator.Validate
}

// NewQuizHandler creates a new QuizHandler with the given dependencies.
func NewQuizHandler(
	registry *SessionRegistry,
	words store.WordStore,
	results store.SessionResultStore,
	emitter events.Emitter,
	clk clock.Clock,
	study config.StudyConfig,
	logger *slog.Logger,
) *QuizHandler {
	if registry == nil {
		panic("session registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizHandler{
		registry:  registry,
		words:     words,
		results:   results,
		emitter:   emitter,
		clock:     clk,
		study:     study,
		logger:    logger.With(slog.String("component", "quiz_handler")),
		validator: validator.New(),
	}
}

// Start handles POST /quizzes: draws a word pool, generates the question set,
// and registers the engine.
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartQuizRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.study.SessionLimit
	}

	pool, err := h.words.List(r.Context(), userID, req.Category, limit, 0)
	if err != nil {
		// Query failures degrade to an empty pool, same as review sessions.
		h.logger.Warn("word pool query failed, starting empty quiz",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		pool = nil
	}

	engine, err := quiz.NewEngine(r.Context(), quiz.Config{
		UserID:       userID,
		TestType:     quiz.TestType(req.TestType),
		QuestionTime: time.Duration(h.study.QuestionSeconds) * time.Second,
	}, pool, quiz.Deps{
		Results: h.results,
		Emitter: h.emitter,
		Clock:   h.clock,
		Logger:  h.logger,
	})
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid test type")
		return
	}

	h.registry.PutQuiz(userID, engine)
	RespondWithJSON(w, r, http.StatusCreated, quizState(engine, ""))
}

// Get handles GET /quizzes/{id}.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, r, http.StatusOK, quizState(engine, ""))
}

// Answer handles POST /quizzes/{id}/answer: stages the draft and submits it.
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := engine.SetAnswer(req.Answer); err != nil {
		h.respondQuizError(w, r, err)
		return
	}
	outcome, err := engine.Submit(r.Context())
	if err != nil {
		h.respondQuizError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, quizState(engine, outcome))
}

// Select handles POST /quizzes/{id}/selection: toggles a multi-select option
// without submitting.
func (h *QuizHandler) Select(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := engine.ToggleSelection(req.Option); err != nil {
		h.respondQuizError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, quizState(engine, ""))
}

// Submit handles POST /quizzes/{id}/submit: resolves the current question
// against the staged selection.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	outcome, err := engine.Submit(r.Context())
	if err != nil {
		h.respondQuizError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, quizState(engine, outcome))
}

// Advance handles POST /quizzes/{id}/advance.
func (h *QuizHandler) Advance(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.lookup(w, r)
	if !ok {
		return
	}

	outcome, err := engine.Advance(r.Context())
	if err != nil {
		h.respondQuizError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, quizState(engine, outcome))
}

// Delete handles DELETE /quizzes/{id}: closes the quiz and drops it from the
// registry.
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := URLParamUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid quiz ID")
		return
	}

	if !h.registry.RemoveQuiz(id, userID) {
		RespondWithError(w, r, http.StatusNotFound, "Quiz not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuizHandler) lookup(w http.ResponseWriter, r *http.Request) (*quiz.Engine, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	id, err := URLParamUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid quiz ID")
		return nil, false
	}

	engine, ok := h.registry.GetQuiz(id, userID)
	if !ok {
		RespondWithError(w, r, http.StatusNotFound, "Quiz not found")
		return nil, false
	}
	return engine, true
}

func (h *QuizHandler) respondQuizError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizCompleted):
		RespondWithError(w, r, http.StatusConflict, "Quiz already completed")
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		RespondWithError(w, r, http.StatusConflict, "Question already answered")
	case errors.Is(err, quiz.ErrSelectionNotAllowed):
		RespondWithError(w, r, http.StatusBadRequest, "Test type does not take a selection")
	default:
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to apply quiz event", err)
	}
}

func quizState(engine *quiz.Engine, outcome quiz.Outcome) QuizStateResponse {
	position, total := engine.Progress()
	resp := QuizStateResponse{
		QuizID:   engine.ID(),
		State:    engine.State(),
		Position: position,
		Total:    total,
		Question: questionView(engine.Current()),
		Outcome:  outcome,
	}
	if resp.State == quiz.StateCompleted {
		resp.Result = engine.Result()
		resp.Wrong = engine.WrongAnswers()
	}
	return resp
}
