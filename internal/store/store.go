// Package store defines the persistence contract shared by every backend:
// the SQL repositories, the hosted PostgREST client and the in-memory store.
package store

import (
	"context"
	"errors"
	"fmt"

	"kelime/internal/models"
)

var (
	// ErrInvalidCredentials is returned by Login when the username/password
	// pair matches no profile
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotFound is returned by mutations that target a missing row
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned by CreateProfile for a duplicate username
	ErrUsernameTaken = errors.New("username already taken")
)

// ExternalError wraps a failure of a remote or storage call
type ExternalError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// IsExternal reports whether err is (or wraps) an ExternalError
func IsExternal(err error) bool {
	var ext *ExternalError
	return errors.As(err, &ext)
}

// NewProfile holds the fields needed to create a profile. Password is the
// plaintext; backends hash it before storing.
type NewProfile struct {
	Username  string
	Password  string
	Role      string
	AvatarURL string
}

// NewWord holds the fields needed to create a word
type NewWord struct {
	UserID          string
	English         string
	Turkish         string
	ExampleSentence string
	ExampleTurkish  string
}

// Profiles covers profile reads and writes
type Profiles interface {
	Login(ctx context.Context, username, password string) (*models.Profile, error)
	// GetProfile returns nil, nil when no profile has the id
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	ListProfilesByPointsDesc(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, p NewProfile) (*models.Profile, error)
	UpdateAvatar(ctx context.Context, userID, url string) error
}

// Words covers word reads and writes
type Words interface {
	CreateWord(ctx context.Context, w NewWord) (*models.Word, error)
	DeleteWord(ctx context.Context, id, ownerID string) error
	ListWordsByOwner(ctx context.Context, ownerID string) ([]models.Word, error)
	ListAllWords(ctx context.Context) ([]models.Word, error)
	ListRecentWords(ctx context.Context, limit int) ([]models.RecentWord, error)
}

// Counters covers the denormalized profile counters. Increment* are the
// atomic primitives; Adjust* are read-modify-write fallbacks that never
// take a counter below zero.
type Counters interface {
	IncrementPoints(ctx context.Context, userID string, delta int) error
	IncrementWordCount(ctx context.Context, userID string) error
	AdjustPoints(ctx context.Context, userID string, delta int) error
	AdjustWordCount(ctx context.Context, userID string, delta int) error
	// RecountWordCount sets word_count to the number of words the profile
	// owns and returns the value written
	RecountWordCount(ctx context.Context, userID string) (int, error)
}

// Store is the full persistence contract
type Store interface {
	Profiles
	Words
	Counters
}
