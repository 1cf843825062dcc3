package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
)

// WordStore defines the interface for word persistence. It is the word
// repository collaborator of the review and quiz engines: sessions never
// create or delete words, they fetch a pool, mutate learning state in place,
// and hand each word back through Update.
type WordStore interface {
	// Create saves a new word. Returns validation errors from the domain
	// Word if the data is invalid.
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its unique ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// List returns the user's words, optionally restricted to a category,
	// ordered by creation time descending.
	List(ctx context.Context, userID uuid.UUID, category string, limit, offset int) ([]*domain.Word, error)

	// FetchDue returns up to limit words whose next review is at or before
	// the given time, ordered by due date ascending. Words that have never
	// been scheduled are considered due. An empty category matches all.
	FetchDue(ctx context.Context, userID uuid.UUID, before time.Time, category string, limit int) ([]*domain.Word, error)

	// FetchForLearning returns up to limit words for a learning session:
	// the union of words studied fewer than minStudyCount times and words
	// at or above that threshold whose mastery is still new or learning,
	// ordered by last-studied ascending with never-studied words first.
	FetchForLearning(ctx context.Context, userID uuid.UUID, minStudyCount, limit int, category string) ([]*domain.Word, error)

	// Update persists a word's mutated learning state.
	// Returns ErrWordNotFound if the word does not exist.
	Update(ctx context.Context, word *domain.Word) error

	// WithTx returns a WordStore bound to the given transaction.
	WithTx(tx *sql.Tx) WordStore
}
