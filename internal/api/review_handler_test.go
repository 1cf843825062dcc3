package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/domain/srs"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/service/review"
)

type reviewHandlerFixture struct {
	handler  *ReviewHandler
	registry *SessionRegistry
	words    *fakeWordStore
	results  *fakeResultStore
}

func newReviewHandlerFixture(t *testing.T, pool ...*domain.Word) reviewHandlerFixture {
	t.Helper()

	registry := NewSessionRegistry()
	words := newFakeWordStore(pool...)
	results := &fakeResultStore{}
	handler := NewReviewHandler(
		registry,
		words,
		newFakeProgressStore(),
		results,
		srs.NewDefaultService(),
		nil,
		clock.NewFake(testTime()),
		testStudyConfig,
		nil,
	)
	return reviewHandlerFixture{
		handler:  handler,
		registry: registry,
		words:    words,
		results:  results,
	}
}

func TestReviewSessionFlow(t *testing.T) {
	userID := uuid.New()
	pool := []*domain.Word{
		testWord(t, userID, "perro", "dog"),
		testWord(t, userID, "gato", "cat"),
	}
	f := newReviewHandlerFixture(t, pool...)

	rec := httptest.NewRecorder()
	f.handler.Start(rec, authedRequest(t, http.MethodPost, "/reviews", userID, StartReviewRequest{Mode: "learning"}))
	require.Equal(t, http.StatusCreated, rec.Code)

	state := decodeBody[ReviewStateResponse](t, rec)
	require.Equal(t, review.StateActive, state.State)
	require.Equal(t, 2, state.Total)
	require.NotNil(t, state.Current)

	swipe := func(direction string) ReviewStateResponse {
		req := authedRequest(t, http.MethodPost, "/reviews/"+state.SessionID.String()+"/swipes", userID, SwipeRequest{Direction: direction})
		rec := httptest.NewRecorder()
		f.handler.Swipe(rec, withURLParam(req, "id", state.SessionID.String()))
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody[ReviewStateResponse](t, rec)
	}

	mid := swipe("right")
	assert.Equal(t, review.StateActive, mid.State)
	assert.Equal(t, 1, mid.Stats.Known)

	done := swipe("left")
	assert.Equal(t, review.StateCompleted, done.State)
	require.NotNil(t, done.Effects)
	assert.True(t, done.Effects.Completed)
	assert.Equal(t, review.Stats{Known: 1, Unknown: 1, Total: 2}, done.Stats)
	require.Len(t, f.results.records, 1)

	// A swipe after completion conflicts.
	req := authedRequest(t, http.MethodPost, "/reviews/"+state.SessionID.String()+"/swipes", userID, SwipeRequest{Direction: "right"})
	rec = httptest.NewRecorder()
	f.handler.Swipe(rec, withURLParam(req, "id", state.SessionID.String()))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStartReviewRejectsUnknownMode(t *testing.T) {
	f := newReviewHandlerFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Start(rec, authedRequest(t, http.MethodPost, "/reviews", uuid.New(), StartReviewRequest{Mode: "cramming"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSwipeRejectsUnknownDirection(t *testing.T) {
	userID := uuid.New()
	f := newReviewHandlerFixture(t, testWord(t, userID, "perro", "dog"))

	rec := httptest.NewRecorder()
	f.handler.Start(rec, authedRequest(t, http.MethodPost, "/reviews", userID, StartReviewRequest{Mode: "learning"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decodeBody[ReviewStateResponse](t, rec)

	req := authedRequest(t, http.MethodPost, "/reviews/"+state.SessionID.String()+"/swipes", userID, SwipeRequest{Direction: "sideways"})
	rec = httptest.NewRecorder()
	f.handler.Swipe(rec, withURLParam(req, "id", state.SessionID.String()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewSessionScopedToOwner(t *testing.T) {
	userID := uuid.New()
	f := newReviewHandlerFixture(t, testWord(t, userID, "perro", "dog"))

	rec := httptest.NewRecorder()
	f.handler.Start(rec, authedRequest(t, http.MethodPost, "/reviews", userID, StartReviewRequest{Mode: "learning"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decodeBody[ReviewStateResponse](t, rec)

	req := authedRequest(t, http.MethodGet, "/reviews/"+state.SessionID.String(), uuid.New(), nil)
	rec = httptest.NewRecorder()
	f.handler.Get(rec, withURLParam(req, "id", state.SessionID.String()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUndoWithNothingToUndoReturnsState(t *testing.T) {
	userID := uuid.New()
	f := newReviewHandlerFixture(t, testWord(t, userID, "perro", "dog"))

	rec := httptest.NewRecorder()
	f.handler.Start(rec, authedRequest(t, http.MethodPost, "/reviews", userID, StartReviewRequest{Mode: "learning"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decodeBody[ReviewStateResponse](t, rec)

	req := authedRequest(t, http.MethodPost, "/reviews/"+state.SessionID.String()+"/undo", userID, nil)
	rec = httptest.NewRecorder()
	f.handler.Undo(rec, withURLParam(req, "id", state.SessionID.String()))
	require.Equal(t, http.StatusOK, rec.Code)
	after := decodeBody[ReviewStateResponse](t, rec)
	assert.Equal(t, state.Position, after.Position)
}

func TestDeleteReviewSession(t *testing.T) {
	userID := uuid.New()
	f := newReviewHandlerFixture(t, testWord(t, userID, "perro", "dog"))

	rec := httptest.NewRecorder()
	f.handler.Start(rec, authedRequest(t, http.MethodPost, "/reviews", userID, StartReviewRequest{Mode: "learning"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decodeBody[ReviewStateResponse](t, rec)

	req := authedRequest(t, http.MethodDelete, "/reviews/"+state.SessionID.String(), userID, nil)
	rec = httptest.NewRecorder()
	f.handler.Delete(rec, withURLParam(req, "id", state.SessionID.String()))
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = authedRequest(t, http.MethodGet, "/reviews/"+state.SessionID.String(), userID, nil)
	rec = httptest.NewRecorder()
	f.handler.Get(rec, withURLParam(req, "id", state.SessionID.String()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
