package services

import (
	"context"
	"fmt"

	"campusfind/metrics"
	"campusfind/models"
	"campusfind/utils"
)

// LifecycleService owns the one state transition a report can take:
// the original reporter marks it as found, which removes it from the store.
// The delete is a hard delete, matching the bulletin's behavior of leaving
// no trace of resolved reports. Confirmation is a UI gate that must happen
// before this is called.
type LifecycleService struct {
	store   ItemStore
	storage ImageStorage
}

func NewLifecycleService(store ItemStore, storage ImageStorage) *LifecycleService {
	return &LifecycleService{
		store:   store,
		storage: storage,
	}
}

// MarkFound deletes the item after verifying the requester is its reporter.
// Ownership is enforced here, server-side, never by the client. A concurrent
// second call for the same id observes ErrNotFound from the store's atomic
// delete.
func (s *LifecycleService) MarkFound(ctx context.Context, itemID, requesterID string) error {
	if requesterID == "" {
		return models.ErrUnauthenticated
	}

	item, err := s.store.Get(ctx, itemID)
	if err != nil {
		return err
	}

	if item.ReporterID != requesterID {
		return models.ErrForbidden
	}

	if err := s.store.Delete(ctx, itemID); err != nil {
		return err
	}

	metrics.ItemsResolved.Inc()

	// The record is gone either way; a leaked blob is only worth a warning.
	if item.ImageRef != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, item.ImageRef); err != nil {
			utils.LogWarning(fmt.Sprintf("item %s resolved but image cleanup failed: %v", itemID, err))
		}
	}

	return nil
}
