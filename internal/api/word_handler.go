package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/wordloop/wordloop-api/internal/api/middleware"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/store"
)

// WordHandler handles vocabulary word API requests.
type WordHandler struct {
	words     store.WordStore
	runTx     func(ctx context.Context, fn store.TxFn) error
	validator *validator.Validate
}

// NewWordHandler creates a new WordHandler with the given dependencies. The
// database handle backs the transactional bulk import.
func NewWordHandler(db *sql.DB, words store.WordStore) *WordHandler {
	if words == nil {
		panic("word store cannot be nil")
	}
	return &WordHandler{
		words: words,
		runTx: func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, db, fn)
		},
		validator: validator.New(),
	}
}

// Create handles POST /words.
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateWordRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	word, err := domain.NewWord(userID, req.Term, req.Translation, req.Category)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid word data: "+err.Error())
		return
	}

	if err := h.words.Create(r.Context(), word); err != nil {
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create word", err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, word)
}

// Import handles POST /words/import: creates every word in the payload inside
// a single transaction, so a bad row rejects the whole batch.
func (h *WordHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ImportWordsRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	created := make([]*domain.Word, 0, len(req.Words))
	for _, item := range req.Words {
		word, err := domain.NewWord(userID, item.Term, item.Translation, item.Category)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest, "Invalid word data: "+err.Error())
			return
		}
		created = append(created, word)
	}

	err := h.runTx(r.Context(), func(ctx context.Context, tx *sql.Tx) error {
		words := h.words.WithTx(tx)
		for _, word := range created {
			if err := words.Create(ctx, word); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to import words", err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, ListWordsResponse{Words: created})
}

// Get handles GET /words/{id}.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := URLParamUUID(r, "id")
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid word ID")
		return
	}

	word, err := h.words.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			RespondWithError(w, r, http.StatusNotFound, "Word not found")
			return
		}
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to get word", err)
		return
	}

	// Words are scoped to their owner.
	if word.UserID != userID {
		RespondWithError(w, r, http.StatusNotFound, "Word not found")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, word)
}

// List handles GET /words with optional category, limit, and offset query
// parameters.
func (h *WordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	category := r.URL.Query().Get("category")

	words, err := h.words.List(r.Context(), userID, category, limit, offset)
	if err != nil {
		RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list words", err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ListWordsResponse{Words: words})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
