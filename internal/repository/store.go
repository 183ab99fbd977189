package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"kelime/internal/database"
	"kelime/internal/store"
)

// Store implements store.Store over the SQL repositories
type Store struct {
	*ProfileRepository
	*WordRepository
}

var _ store.Store = (*Store)(nil)

// NewStore builds the SQL-backed store
func NewStore(db *database.DB) *Store {
	return &Store{
		ProfileRepository: NewProfileRepository(db),
		WordRepository:    NewWordRepository(db),
	}
}

func dbError(op string, err error) error {
	return &store.ExternalError{Service: "database", Op: op, Err: err}
}

func sqlxGet(ctx context.Context, db database.DBTX, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, db, dest, query, args...)
}

func sqlxSelect(ctx context.Context, db database.DBTX, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, db, dest, query, args...)
}
