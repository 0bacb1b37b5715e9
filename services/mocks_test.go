package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"campusfind/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memItemStore is an in-memory ItemStore with the same contract as the
// Mongo-backed one: validation in Create, newest-first List, atomic Delete.
type memItemStore struct {
	mu    sync.Mutex
	items []models.Item

	failCreate error
}

func newMemItemStore() *memItemStore {
	return &memItemStore{}
}

func (s *memItemStore) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if s.failCreate != nil {
		return nil, s.failCreate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = primitive.NewObjectID()
	item.DatePosted = nowMonotonic()
	s.items = append(s.items, *item)
	return item, nil
}

func (s *memItemStore) List(ctx context.Context) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Newest first: reverse insertion order, matching the Mongo sort.
	out := make([]models.Item, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *memItemStore) Get(ctx context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID.Hex() == id {
			found := item
			return &found, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *memItemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID.Hex() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *memItemStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// fakeStorage records uploads and deletes and can be told to fail.
type fakeStorage struct {
	mu         sync.Mutex
	uploads    []string
	deletes    []string
	failUpload bool
}

func (f *fakeStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpload {
		return "", fmt.Errorf("%w: backend down", models.ErrUploadFailed)
	}
	ref := fmt.Sprintf("http://storage.test/uploads/%d-%s", len(f.uploads), filename)
	f.uploads = append(f.uploads, ref)
	return ref, nil
}

func (f *fakeStorage) Delete(ctx context.Context, imageRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, imageRef)
	return nil
}

func (f *fakeStorage) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// fakeMatcher records what it was asked and answers with fixed matches.
type fakeMatcher struct {
	mu         sync.Mutex
	calls      int
	candidates []models.Item
	matches    []string
}

func (f *fakeMatcher) FindMatches(ctx context.Context, image []byte, contentType string, candidates []models.Item) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.candidates = candidates
	return f.matches
}

var errStoreDown = errors.New("store down")

var (
	monoMu   sync.Mutex
	monoLast time.Time
)

// nowMonotonic hands out strictly increasing timestamps so newest-first
// ordering stays deterministic even when inserts land in the same tick.
func nowMonotonic() time.Time {
	monoMu.Lock()
	defer monoMu.Unlock()

	now := time.Now().UTC()
	if !now.After(monoLast) {
		now = monoLast.Add(time.Microsecond)
	}
	monoLast = now
	return now
}
