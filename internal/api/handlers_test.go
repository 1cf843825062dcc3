package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wordloop/wordloop-api/internal/api/shared"
	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/store"
)

// testStudyConfig mirrors the defaults the handlers are tuned for.
var testStudyConfig = config.StudyConfig{
	SessionLimit:    20,
	MinStudyCount:   3,
	DailyGoal:       20,
	QuestionSeconds: 20,
}

func testTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// jsonRequest builds a request with a JSON-encoded body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return httptest.NewRequest(method, target, &buf)
}

// authedRequest builds a request carrying the user ID the auth middleware
// would have injected.
func authedRequest(t *testing.T, method, target string, userID uuid.UUID, body any) *http.Request {
	t.Helper()

	req := jsonRequest(t, method, target, body)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withURLParam attaches a chi route parameter to the request.
func withURLParam(r *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

var _ store.UserStore = (*fakeUserStore)(nil)

// fakeWordStore serves a fixed pool and records created words.
type fakeWordStore struct {
	byID    map[uuid.UUID]*domain.Word
	pool    []*domain.Word
	listErr error
}

func newFakeWordStore(pool ...*domain.Word) *fakeWordStore {
	f := &fakeWordStore{byID: make(map[uuid.UUID]*domain.Word), pool: pool}
	for _, w := range pool {
		f.byID[w.ID] = w
	}
	return f
}

func (f *fakeWordStore) Create(ctx context.Context, word *domain.Word) error {
	f.byID[word.ID] = word
	f.pool = append(f.pool, word)
	return nil
}

func (f *fakeWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	word, ok := f.byID[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return word, nil
}

func (f *fakeWordStore) List(ctx context.Context, userID uuid.UUID, category string, limit, offset int) ([]*domain.Word, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.matching(userID, category, limit), nil
}

func (f *fakeWordStore) FetchDue(ctx context.Context, userID uuid.UUID, before time.Time, category string, limit int) ([]*domain.Word, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.matching(userID, category, limit), nil
}

func (f *fakeWordStore) FetchForLearning(ctx context.Context, userID uuid.UUID, minStudyCount, limit int, category string) ([]*domain.Word, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.matching(userID, category, limit), nil
}

func (f *fakeWordStore) matching(userID uuid.UUID, category string, limit int) []*domain.Word {
	out := make([]*domain.Word, 0, len(f.pool))
	for _, w := range f.pool {
		if w.UserID != userID {
			continue
		}
		if category != "" && w.Category != category {
			continue
		}
		out = append(out, w)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (f *fakeWordStore) Update(ctx context.Context, word *domain.Word) error {
	if _, ok := f.byID[word.ID]; !ok {
		return store.ErrWordNotFound
	}
	f.byID[word.ID] = word
	return nil
}

func (f *fakeWordStore) WithTx(tx *sql.Tx) store.WordStore { return f }

var _ store.WordStore = (*fakeWordStore)(nil)

// fakeProgressStore keeps the aggregates in memory.
type fakeProgressStore struct {
	daily map[uuid.UUID]*domain.DailyProgress
	stats map[uuid.UUID]*domain.UserStats
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		daily: make(map[uuid.UUID]*domain.DailyProgress),
		stats: make(map[uuid.UUID]*domain.UserStats),
	}
}

func (f *fakeProgressStore) GetOrCreateDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyProgress, error) {
	if p, ok := f.daily[userID]; ok && p.Day.Equal(domain.StartOfDay(day)) {
		return p, nil
	}
	p, err := domain.NewDailyProgress(userID, day)
	if err != nil {
		return nil, err
	}
	f.daily[userID] = p
	return p, nil
}

func (f *fakeProgressStore) SaveDaily(ctx context.Context, progress *domain.DailyProgress) error {
	f.daily[progress.UserID] = progress
	return nil
}

func (f *fakeProgressStore) GetOrCreateUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	if s, ok := f.stats[userID]; ok {
		return s, nil
	}
	s, err := domain.NewUserStats(userID, testStudyConfig.DailyGoal)
	if err != nil {
		return nil, err
	}
	f.stats[userID] = s
	return s, nil
}

func (f *fakeProgressStore) SaveUserStats(ctx context.Context, stats *domain.UserStats) error {
	f.stats[stats.UserID] = stats
	return nil
}

func (f *fakeProgressStore) WithTx(tx *sql.Tx) store.ProgressStore { return f }

var _ store.ProgressStore = (*fakeProgressStore)(nil)

// fakeResultStore collects recorded session results.
type fakeResultStore struct {
	records []*domain.SessionResult
}

func (f *fakeResultStore) Record(ctx context.Context, result *domain.SessionResult) error {
	f.records = append(f.records, result)
	return nil
}

func (f *fakeResultStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SessionResult, error) {
	out := make([]*domain.SessionResult, 0, len(f.records))
	for i := len(f.records) - 1; i >= 0 && len(out) < limit; i-- {
		if f.records[i].UserID == userID {
			out = append(out, f.records[i])
		}
	}
	return out, nil
}

func (f *fakeResultStore) WithTx(tx *sql.Tx) store.SessionResultStore { return f }

var _ store.SessionResultStore = (*fakeResultStore)(nil)

// testWord builds a word owned by userID with fresh learning state.
func testWord(t *testing.T, userID uuid.UUID, term, translation string) *domain.Word {
	t.Helper()
	word, err := domain.NewWord(userID, term, translation, "test")
	require.NoError(t, err)
	return word
}
