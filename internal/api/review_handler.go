package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wordloop/wordloop-api/internal/api/middleware"
	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/domain/srs"
	"github.com/wordloop/wordloop-api/internal/events"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/service/review"
	"github.com/wordloop/wordloop-api/internal/store"
)

// ReviewHandler handles review session API requests. Sessions live in the
// in-memory registry between requests.
type ReviewHandler struct {
	registry  *SessionRegistry
	words     store.WordStore
	progress  store.ProgressStore
	results   store.SessionResultStore
	scheduler srs.Service
	emitter   events.Emitter
	clock     clock.Clock
	study     config.StudyConfig
	logger    *slog.Logger
	validator *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(
	registry *SessionRegistry,
	words store.WordStore,
	progress store.ProgressStore,
	results store.SessionResultStore,
	scheduler srs.Service,
	emitter events.Emitter,
	clk clock.Clock,
	study config.StudyConfig,
	logger *slog.Logger,
) *ReviewHandler {
	if registry == nil {
		panic("session registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		registry:  registry,
		words:     words,
		progress:  progress,
		results:   results,
		scheduler: scheduler,
		emitter:   emitter,
		clock:     clk,
		study:     study,
		logger:    logger.With(slog.String("component", "review_handler")),
		validator: validator.New(),
	}
}

// Start handles POST /reviews: builds a session queue for the requested mode
// and registers the session.
func (h *ReviewHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req StartReviewRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	session, err := review.NewSession(r.Context(), review.Config{
		UserID:        userID,
		Mode:          review.Mode(req.Mode),
		Category:      req.Category,
		SessionLimit:  h.study.SessionLimit,
		MinStudyCount: h.study.MinStudyCount,
	}, review.Deps{
		Words:     h.words,
		Progress:  h.progress,
		Results:   h.results,
		Scheduler: h.scheduler,
		Emitter:   h.emitter,
		Clock:     h.clock,
		Logger:    h.logger,
	})
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid session mode")
		return
	}

	h.registry.PutReview(userID, session)
	RespondWithJSON(w, r, http.StatusCreated, reviewState(session, nil))
}

// Get handles GET /reviews/{id}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	RespondWithJSON(w, r, http.StatusOK, reviewState(session, nil))
}

// Swipe handles POST /reviews/{id}/swipes.
func (h *ReviewHandler) Swipe(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req SwipeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	effects, err := session.Advance(r.Context(), review.Direction(req.Direction))
	if err != nil {
		switch err {
		case review.ErrSessionCompleted:
			RespondWithError(w, r, http.StatusConflict, "Session already completed")
		case review.ErrInvalidDirection:
			RespondWithError(w, r, http.StatusBadRequest, "Invalid swipe direction")
		default:
			RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to apply swipe", err)
		}
		return
	}

	RespondWithJSON(w, r, http.StatusOK, reviewState(session, &effects))
}

// Undo handles POST /reviews/{id}/undo. Undoing with nothing to undo is not
// an error; the response carries the unchanged state.
func (h *ReviewHandler) Undo(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	session.Undo(r.Context())
	RespondWithJSON(w, r, http.StatusOK, reviewState(session, nil))
}

// Delete handles DELETE /reviews/{id}: drops the session from the registry.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := URLParamUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if !h.registry.RemoveReview(id, userID) {
		RespondWithError(w, r, http.StatusNotFound, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewHandler) lookup(w http.ResponseWriter, r *http.Request) (*review.Session, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}

	id, err := URLParamUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return nil, false
	}

	session, ok := h.registry.GetReview(id, userID)
	if !ok {
		RespondWithError(w, r, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return session, true
}

func reviewState(session *review.Session, effects *review.Effects) ReviewStateResponse {
	position, total := session.Progress()
	return ReviewStateResponse{
		SessionID: session.ID(),
		State:     session.State(),
		Stats:     session.Stats(),
		Position:  position,
		Total:     total,
		Current:   session.Current(),
		Effects:   effects,
	}
}
