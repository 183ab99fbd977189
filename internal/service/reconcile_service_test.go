package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelime/internal/models"
	"kelime/internal/store/memstore"
)

// addDuringList runs a complete word add while the reconciler reads words
type addDuringList struct {
	*memstore.Store
	t      *testing.T
	userID string
}

func (a *addDuringList) ListAllWords(ctx context.Context) ([]models.Word, error) {
	a.Store.PutWord(models.Word{UserID: a.userID, English: "late"})
	require.NoError(a.t, a.Store.IncrementWordCount(ctx, a.userID))
	return a.Store.ListAllWords(ctx)
}

func TestReconcile(t *testing.T) {
	ms := memstore.New()
	ctx := context.Background()
	elif := newProfile(t, ms, "elif")
	uraz := newProfile(t, ms, "uraz")

	ms.PutWord(models.Word{UserID: elif.ID, English: "apple"})
	ms.PutWord(models.Word{UserID: elif.ID, English: "pear"})
	require.NoError(t, ms.IncrementWordCount(ctx, uraz.ID))

	svc := NewReconcileService(ms, discardLogger())
	repaired, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)
	assert.Equal(t, 2, wordCount(t, ms, elif.ID))
	assert.Zero(t, wordCount(t, ms, uraz.ID))

	repaired, err = svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired, "nothing left to repair")
}

func TestReconcileErrors(t *testing.T) {
	ms := memstore.New()
	ctx := context.Background()
	p := newProfile(t, ms, "elif")
	ms.PutWord(models.Word{UserID: p.ID, English: "apple"})

	ms.FailOn(memstore.OpRecountWordCount, errors.New("down"))
	repaired, err := NewReconcileService(ms, discardLogger()).Reconcile(ctx)
	require.NoError(t, err, "per-profile failures are logged")
	assert.Zero(t, repaired)

	ms.FailOn(memstore.OpListAllWords, errors.New("down"))
	_, err = NewReconcileService(ms, discardLogger()).Reconcile(ctx)
	assert.Error(t, err)
}

func TestReconcileConcurrentAdd(t *testing.T) {
	ms := memstore.New()
	ctx := context.Background()
	p := newProfile(t, ms, "elif")

	svc := NewReconcileService(&addDuringList{Store: ms, t: t, userID: p.ID}, discardLogger())
	_, err := svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, wordCount(t, ms, p.ID), "word count matches the owned words")

	words, err := ms.ListWordsByOwner(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, words, 1)
}
