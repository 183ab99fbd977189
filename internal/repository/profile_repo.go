package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kelime/internal/database"
	"kelime/internal/models"
	"kelime/internal/security"
	"kelime/internal/store"
)

const profileColumns = "id, username, role, points, word_count, avatar_url, created_at"

// ProfileRepository handles database operations for profiles and their
// counters
type ProfileRepository struct {
	db      database.DBTX
	dialect database.Dialect
	now     func() time.Time
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{
		db:      db,
		dialect: db.Dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type profileWithHash struct {
	models.Profile
	PasswordHash string `db:"password_hash"`
}

// Login returns the profile whose username and password match
func (r *ProfileRepository) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	var row profileWithHash
	query := r.db.Rebind("SELECT " + profileColumns + ", password_hash FROM profiles WHERE username = ?")
	err := sqlxGet(ctx, r.db, &row, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrInvalidCredentials
	}
	if err != nil {
		return nil, dbError("login", err)
	}

	if !security.CheckPassword(password, row.PasswordHash) {
		return nil, store.ErrInvalidCredentials
	}
	return &row.Profile, nil
}

// GetProfile retrieves a profile by ID
func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	query := r.db.Rebind("SELECT " + profileColumns + " FROM profiles WHERE id = ?")
	err := sqlxGet(ctx, r.db, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError("get profile", err)
	}
	return &p, nil
}

// ListProfilesByPointsDesc returns every profile, highest points first
func (r *ProfileRepository) ListProfilesByPointsDesc(ctx context.Context) ([]models.Profile, error) {
	profiles := []models.Profile{}
	query := "SELECT " + profileColumns + " FROM profiles ORDER BY points DESC, created_at ASC, username ASC"
	if err := sqlxSelect(ctx, r.db, &profiles, query); err != nil {
		return nil, dbError("list profiles", err)
	}
	return profiles, nil
}

// CountProfiles returns the number of profiles
func (r *ProfileRepository) CountProfiles(ctx context.Context) (int, error) {
	var count int
	if err := sqlxGet(ctx, r.db, &count, "SELECT COUNT(*) FROM profiles"); err != nil {
		return 0, dbError("count profiles", err)
	}
	return count, nil
}

// CreateProfile inserts a new profile with a bcrypt-hashed password
func (r *ProfileRepository) CreateProfile(ctx context.Context, np store.NewProfile) (*models.Profile, error) {
	hash, err := security.HashPassword(np.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := np.Role
	if role == "" {
		role = models.RoleUser
	}
	p := &models.Profile{
		ID:        uuid.NewString(),
		Username:  np.Username,
		Role:      role,
		AvatarURL: np.AvatarURL,
		CreatedAt: r.now(),
	}

	query := r.db.Rebind(`
		INSERT INTO profiles (id, username, password_hash, role, points, word_count, avatar_url, created_at)
		VALUES (?, ?, ?, ?, 0, 0, ?, ?)
	`)
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Username, hash, p.Role, p.AvatarURL, p.CreatedAt); err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, store.ErrUsernameTaken
		}
		return nil, dbError("create profile", err)
	}
	return p, nil
}

// UpdateAvatar sets a profile's stored avatar URL
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, userID, url string) error {
	query := r.db.Rebind("UPDATE profiles SET avatar_url = ? WHERE id = ?")
	return r.execOne(ctx, "update avatar", query, url, userID)
}

// IncrementPoints adds delta to a profile's points in one statement
func (r *ProfileRepository) IncrementPoints(ctx context.Context, userID string, delta int) error {
	query := r.db.Rebind("UPDATE profiles SET points = points + ? WHERE id = ?")
	return r.execOne(ctx, "increment points", query, delta, userID)
}

// IncrementWordCount adds one to a profile's word count in one statement
func (r *ProfileRepository) IncrementWordCount(ctx context.Context, userID string) error {
	query := r.db.Rebind("UPDATE profiles SET word_count = word_count + 1 WHERE id = ?")
	return r.execOne(ctx, "increment word count", query, userID)
}

// AdjustPoints adds delta to points, never going below zero
func (r *ProfileRepository) AdjustPoints(ctx context.Context, userID string, delta int) error {
	query := r.db.Rebind(`
		UPDATE profiles
		SET points = CASE WHEN points + ? < 0 THEN 0 ELSE points + ? END
		WHERE id = ?
	`)
	return r.execOne(ctx, "adjust points", query, delta, delta, userID)
}

// AdjustWordCount adds delta to word_count, never going below zero
func (r *ProfileRepository) AdjustWordCount(ctx context.Context, userID string, delta int) error {
	query := r.db.Rebind(`
		UPDATE profiles
		SET word_count = CASE WHEN word_count + ? < 0 THEN 0 ELSE word_count + ? END
		WHERE id = ?
	`)
	return r.execOne(ctx, "adjust word count", query, delta, delta, userID)
}

// RecountWordCount sets word_count from the words table in one statement
func (r *ProfileRepository) RecountWordCount(ctx context.Context, userID string) (int, error) {
	query := r.db.Rebind(`
		UPDATE profiles
		SET word_count = (SELECT COUNT(*) FROM words WHERE words.user_id = ?)
		WHERE id = ?
	`)
	if err := r.execOne(ctx, "recount word count", query, userID, userID); err != nil {
		return 0, err
	}

	var count int
	query = r.db.Rebind("SELECT word_count FROM profiles WHERE id = ?")
	if err := sqlxGet(ctx, r.db, &count, query, userID); err != nil {
		return 0, dbError("recount word count", err)
	}
	return count, nil
}

// execOne runs a single-row update and maps zero affected rows to
// store.ErrNotFound
func (r *ProfileRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return dbError(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbError(op, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
