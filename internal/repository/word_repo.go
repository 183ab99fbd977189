package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"kelime/internal/database"
	"kelime/internal/models"
	"kelime/internal/store"
)

const wordColumns = "id, user_id, english, turkish, example_sentence, example_turkish, status, created_at"

// WordRepository handles database operations for words
type WordRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewWordRepository creates a new word repository
func NewWordRepository(db *database.DB) *WordRepository {
	return &WordRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateWord inserts a word with status new
func (r *WordRepository) CreateWord(ctx context.Context, nw store.NewWord) (*models.Word, error) {
	w := &models.Word{
		ID:              uuid.NewString(),
		UserID:          nw.UserID,
		English:         nw.English,
		Turkish:         nw.Turkish,
		ExampleSentence: nw.ExampleSentence,
		ExampleTurkish:  nw.ExampleTurkish,
		Status:          models.StatusNew,
		CreatedAt:       r.now(),
	}

	query := r.db.Rebind(`
		INSERT INTO words (` + wordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.UserID, w.English, w.Turkish, w.ExampleSentence, w.ExampleTurkish, w.Status, w.CreatedAt)
	if err != nil {
		return nil, dbError("create word", err)
	}
	return w, nil
}

// DeleteWord removes a word owned by ownerID
func (r *WordRepository) DeleteWord(ctx context.Context, id, ownerID string) error {
	query := r.db.Rebind("DELETE FROM words WHERE id = ? AND user_id = ?")
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return dbError("delete word", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbError("delete word", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListWordsByOwner returns a profile's words, newest first
func (r *WordRepository) ListWordsByOwner(ctx context.Context, ownerID string) ([]models.Word, error) {
	words := []models.Word{}
	query := r.db.Rebind("SELECT " + wordColumns + " FROM words WHERE user_id = ? ORDER BY created_at DESC, id ASC")
	if err := sqlxSelect(ctx, r.db, &words, query, ownerID); err != nil {
		return nil, dbError("list words by owner", err)
	}
	return words, nil
}

// ListAllWords returns every word, newest first
func (r *WordRepository) ListAllWords(ctx context.Context) ([]models.Word, error) {
	words := []models.Word{}
	query := "SELECT " + wordColumns + " FROM words ORDER BY created_at DESC, id ASC"
	if err := sqlxSelect(ctx, r.db, &words, query); err != nil {
		return nil, dbError("list all words", err)
	}
	return words, nil
}

// ListRecentWords returns the newest words joined with their owners
func (r *WordRepository) ListRecentWords(ctx context.Context, limit int) ([]models.RecentWord, error) {
	words := []models.RecentWord{}
	query := r.db.Rebind(`
		SELECT w.id, w.user_id, w.english, w.turkish, w.example_sentence, w.example_turkish, w.status, w.created_at,
		       p.username AS "profiles.username", p.avatar_url AS "profiles.avatar_url"
		FROM words w
		JOIN profiles p ON p.id = w.user_id
		ORDER BY w.created_at DESC, w.id ASC
		LIMIT ?
	`)
	if err := sqlxSelect(ctx, r.db, &words, query, limit); err != nil {
		return nil, dbError("list recent words", err)
	}
	return words, nil
}
