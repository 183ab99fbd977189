package store

import (
	"context"
	"time"

	"kelime/internal/models"
)

// WithTimeout wraps s so every call is bounded by d. A non-positive d
// returns s unchanged.
func WithTimeout(s Store, d time.Duration) Store {
	if d <= 0 {
		return s
	}
	return &timeoutStore{next: s, d: d}
}

type timeoutStore struct {
	next Store
	d    time.Duration
}

func (t *timeoutStore) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, t.d)
}

func (t *timeoutStore) Login(ctx context.Context, username, password string) (*models.Profile, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.Login(ctx, username, password)
}

func (t *timeoutStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.GetProfile(ctx, id)
}

func (t *timeoutStore) ListProfilesByPointsDesc(ctx context.Context) ([]models.Profile, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.ListProfilesByPointsDesc(ctx)
}

func (t *timeoutStore) CreateProfile(ctx context.Context, p NewProfile) (*models.Profile, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.CreateProfile(ctx, p)
}

func (t *timeoutStore) UpdateAvatar(ctx context.Context, userID, url string) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.UpdateAvatar(ctx, userID, url)
}

func (t *timeoutStore) CreateWord(ctx context.Context, w NewWord) (*models.Word, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.CreateWord(ctx, w)
}

func (t *timeoutStore) DeleteWord(ctx context.Context, id, ownerID string) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.DeleteWord(ctx, id, ownerID)
}

func (t *timeoutStore) ListWordsByOwner(ctx context.Context, ownerID string) ([]models.Word, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.ListWordsByOwner(ctx, ownerID)
}

func (t *timeoutStore) ListAllWords(ctx context.Context) ([]models.Word, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.ListAllWords(ctx)
}

func (t *timeoutStore) ListRecentWords(ctx context.Context, limit int) ([]models.RecentWord, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.ListRecentWords(ctx, limit)
}

func (t *timeoutStore) IncrementPoints(ctx context.Context, userID string, delta int) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.IncrementPoints(ctx, userID, delta)
}

func (t *timeoutStore) IncrementWordCount(ctx context.Context, userID string) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.IncrementWordCount(ctx, userID)
}

func (t *timeoutStore) AdjustPoints(ctx context.Context, userID string, delta int) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.AdjustPoints(ctx, userID, delta)
}

func (t *timeoutStore) AdjustWordCount(ctx context.Context, userID string, delta int) error {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.AdjustWordCount(ctx, userID, delta)
}

func (t *timeoutStore) RecountWordCount(ctx context.Context, userID string) (int, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.next.RecountWordCount(ctx, userID)
}
