package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelime/internal/database"
	"kelime/internal/models"
	"kelime/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping SQLite-backed test in short mode")
	}
	db, err := database.Initialize(filepath.Join(t.TempDir(), "repo_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

// fixedClock returns successive timestamps one minute apart
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		t := next
		next = next.Add(time.Minute)
		return t
	}
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "harun", Password: "secret", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.Zero(t, p.Points)

	_, err = s.CreateProfile(ctx, store.NewProfile{Username: "harun", Password: "other"})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	logged, err := s.Login(ctx, "harun", "secret")
	require.NoError(t, err)
	assert.Equal(t, p.ID, logged.ID)

	_, err = s.Login(ctx, "harun", "wrong")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "harun", got.Username)

	missing, err := s.GetProfile(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.UpdateAvatar(ctx, p.ID, "https://img.test/h.svg"))
	got, err = s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/h.svg", got.AvatarURL)

	assert.ErrorIs(t, s.UpdateAvatar(ctx, "missing", "x"), store.ErrNotFound)

	count, err := s.CountProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCounters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "uraz", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, s.IncrementPoints(ctx, p.ID, 30))
	require.NoError(t, s.AdjustPoints(ctx, p.ID, 10))
	require.NoError(t, s.IncrementWordCount(ctx, p.ID))
	require.NoError(t, s.IncrementWordCount(ctx, p.ID))
	require.NoError(t, s.AdjustWordCount(ctx, p.ID, -5))

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Points)
	assert.Equal(t, 0, got.WordCount, "word count is clamped at zero")

	assert.ErrorIs(t, s.IncrementPoints(ctx, "missing", 10), store.ErrNotFound)
}

func TestRecountWordCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateProfile(ctx, store.NewProfile{Username: "elif", Password: "pw"})
	require.NoError(t, err)
	other, err := s.CreateProfile(ctx, store.NewProfile{Username: "uraz", Password: "pw"})
	require.NoError(t, err)

	for _, english := range []string{"apple", "pear"} {
		_, err := s.CreateWord(ctx, store.NewWord{UserID: owner.ID, English: english})
		require.NoError(t, err)
	}
	_, err = s.CreateWord(ctx, store.NewWord{UserID: other.ID, English: "fig"})
	require.NoError(t, err)
	require.NoError(t, s.AdjustWordCount(ctx, owner.ID, 5))

	count, err := s.RecountWordCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := s.GetProfile(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WordCount)

	count, err = s.RecountWordCount(ctx, owner.ID)
	require.NoError(t, err, "an unchanged count is still a match")
	assert.Equal(t, 2, count)

	_, err = s.RecountWordCount(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUnchangedUpdatesFindTheRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "harun", Password: "pw", AvatarURL: "https://img.test/h.svg"})
	require.NoError(t, err)

	assert.NoError(t, s.UpdateAvatar(ctx, p.ID, "https://img.test/h.svg"))
	assert.NoError(t, s.AdjustWordCount(ctx, p.ID, -1), "count already at zero")
}

func TestLeaderboardOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids := map[string]string{}
	for _, name := range []string{"harun", "uraz", "elif"} {
		p, err := s.CreateProfile(ctx, store.NewProfile{Username: name, Password: "pw"})
		require.NoError(t, err)
		ids[name] = p.ID
	}
	require.NoError(t, s.IncrementPoints(ctx, ids["uraz"], 50))
	require.NoError(t, s.IncrementPoints(ctx, ids["elif"], 20))

	profiles, err := s.ListProfilesByPointsDesc(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, []string{"uraz", "elif", "harun"},
		[]string{profiles[0].Username, profiles[1].Username, profiles[2].Username})
}

func TestWordLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.WordRepository.now = fixedClock(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC))

	owner, err := s.CreateProfile(ctx, store.NewProfile{Username: "elif", Password: "pw", AvatarURL: "https://img.test/e.svg"})
	require.NoError(t, err)
	other, err := s.CreateProfile(ctx, store.NewProfile{Username: "uraz", Password: "pw"})
	require.NoError(t, err)

	var created []*models.Word
	for _, english := range []string{"apple", "pear", "cherry", "plum", "fig"} {
		w, err := s.CreateWord(ctx, store.NewWord{UserID: owner.ID, English: english, Turkish: "x"})
		require.NoError(t, err)
		assert.Equal(t, models.StatusNew, w.Status)
		created = append(created, w)
	}
	_, err = s.CreateWord(ctx, store.NewWord{UserID: other.ID, English: "grape"})
	require.NoError(t, err)

	mine, err := s.ListWordsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 5)
	assert.Equal(t, "fig", mine[0].English, "newest first")
	assert.True(t, mine[0].CreatedAt.Equal(created[4].CreatedAt))

	all, err := s.ListAllWords(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	recent, err := s.ListRecentWords(ctx, 4)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "grape", recent[0].English)
	assert.Equal(t, "uraz", recent[0].Owner.Username)
	assert.Equal(t, "elif", recent[1].Owner.Username)
	assert.Equal(t, "https://img.test/e.svg", recent[1].Owner.AvatarURL)

	assert.ErrorIs(t, s.DeleteWord(ctx, created[0].ID, other.ID), store.ErrNotFound, "only the owner may delete")
	require.NoError(t, s.DeleteWord(ctx, created[0].ID, owner.ID))
	assert.ErrorIs(t, s.DeleteWord(ctx, created[0].ID, owner.ID), store.ErrNotFound)

	mine, err = s.ListWordsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 4)
}

func TestStoreErrorsAreExternal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// user_id references no profile, so the insert fails on the foreign key
	_, err := s.CreateWord(ctx, store.NewWord{UserID: "missing", English: "apple"})
	require.Error(t, err)
	assert.True(t, store.IsExternal(err))
}
