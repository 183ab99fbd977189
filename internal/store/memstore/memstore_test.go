package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelime/internal/models"
	"kelime/internal/store"
)

func TestLoginAndProfiles(t *testing.T) {
	s := New()
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "elif", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, p.Role)

	_, err = s.CreateProfile(ctx, store.NewProfile{Username: "elif", Password: "pw"})
	assert.ErrorIs(t, err, store.ErrUsernameTaken)

	logged, err := s.Login(ctx, "elif", "pw")
	require.NoError(t, err)
	assert.Equal(t, p.ID, logged.ID)

	_, err = s.Login(ctx, "elif", "nope")
	assert.ErrorIs(t, err, store.ErrInvalidCredentials)

	missing, err := s.GetProfile(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCountersClampAtZero(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "uraz", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, s.IncrementWordCount(ctx, p.ID))
	require.NoError(t, s.AdjustWordCount(ctx, p.ID, -3))
	require.NoError(t, s.IncrementPoints(ctx, p.ID, 20))

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.WordCount)
	assert.Equal(t, 20, got.Points)

	assert.ErrorIs(t, s.IncrementPoints(ctx, "missing", 1), store.ErrNotFound)
}

func TestRecountWordCount(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "elif", Password: "pw"})
	require.NoError(t, err)

	s.PutWord(models.Word{UserID: p.ID, English: "apple"})
	s.PutWord(models.Word{UserID: p.ID, English: "pear"})
	s.PutWord(models.Word{UserID: "someone-else", English: "fig"})
	require.NoError(t, s.AdjustWordCount(ctx, p.ID, 7))

	count, err := s.RecountWordCount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := s.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.WordCount)

	_, err = s.RecountWordCount(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFailOn(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "harun", Password: "pw"})
	require.NoError(t, err)

	s.FailOn(OpIncrementWordCount, errors.New("rpc missing"))
	err = s.IncrementWordCount(ctx, p.ID)
	require.Error(t, err)
	assert.True(t, store.IsExternal(err))

	s.FailOn(OpIncrementWordCount, nil)
	assert.NoError(t, s.IncrementWordCount(ctx, p.ID))
}

func TestRecentWordsJoinOwner(t *testing.T) {
	s := New()
	ctx := context.Background()
	p, err := s.CreateProfile(ctx, store.NewProfile{Username: "elif", Password: "pw", AvatarURL: "https://img.test/e.svg"})
	require.NoError(t, err)

	base := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	for i, english := range []string{"a", "b", "c", "d", "e"} {
		s.PutWord(models.Word{UserID: p.ID, English: english, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}

	recent, err := s.ListRecentWords(ctx, 4)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "e", recent[0].English)
	assert.Equal(t, "elif", recent[0].Owner.Username)
	assert.Equal(t, "https://img.test/e.svg", recent[0].Owner.AvatarURL)
	assert.Equal(t, models.StatusNew, recent[0].Status)

	words, err := s.ListWordsByOwner(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, words, 5)

	assert.ErrorIs(t, s.DeleteWord(ctx, words[0].ID, "someone-else"), store.ErrNotFound)
	require.NoError(t, s.DeleteWord(ctx, words[0].ID, p.ID))
}
