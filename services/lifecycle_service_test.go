package services

import (
	"context"
	"testing"

	"campusfind/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOneItem(t *testing.T, store *memItemStore, reporterID string) *models.Item {
	t.Helper()

	req := validSubmission()
	req.ReporterID = reporterID
	req.Image = []byte("fake image")
	req.ImageFilename = "photo.jpg"
	req.ImageMimeType = "image/jpeg"

	result, err := NewSubmissionService(store, &fakeStorage{}, nil, 0).Submit(context.Background(), req)
	require.NoError(t, err)
	return result.Item
}

func TestMarkFoundByOwnerHardDeletes(t *testing.T) {
	store := newMemItemStore()
	storage := &fakeStorage{}
	item := seedOneItem(t, store, "21CS01")
	svc := NewLifecycleService(store, storage)

	err := svc.MarkFound(context.Background(), item.ID.Hex(), "21CS01")
	require.NoError(t, err)

	// Hard delete: the record is gone, not flagged.
	_, err = store.Get(context.Background(), item.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, store.len())

	// Stored image released with the record.
	require.Len(t, storage.deletes, 1)
	assert.Equal(t, item.ImageRef, storage.deletes[0])
}

func TestMarkFoundByNonOwnerForbidden(t *testing.T) {
	store := newMemItemStore()
	item := seedOneItem(t, store, "21CS01")
	svc := NewLifecycleService(store, &fakeStorage{})

	err := svc.MarkFound(context.Background(), item.ID.Hex(), "21EE99")

	require.ErrorIs(t, err, models.ErrForbidden)
	assert.Equal(t, 1, store.len(), "store unchanged after forbidden attempt")
}

func TestMarkFoundUnknownIDNotFound(t *testing.T) {
	svc := NewLifecycleService(newMemItemStore(), &fakeStorage{})

	err := svc.MarkFound(context.Background(), "65f000000000000000000000", "21CS01")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMarkFoundTwiceSecondCallNotFound(t *testing.T) {
	store := newMemItemStore()
	item := seedOneItem(t, store, "21CS01")
	svc := NewLifecycleService(store, &fakeStorage{})

	require.NoError(t, svc.MarkFound(context.Background(), item.ID.Hex(), "21CS01"))

	err := svc.MarkFound(context.Background(), item.ID.Hex(), "21CS01")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMarkFoundWithoutIdentity(t *testing.T) {
	store := newMemItemStore()
	item := seedOneItem(t, store, "21CS01")
	svc := NewLifecycleService(store, &fakeStorage{})

	err := svc.MarkFound(context.Background(), item.ID.Hex(), "")

	require.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Equal(t, 1, store.len())
}
