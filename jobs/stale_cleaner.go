package jobs

import (
	"context"
	"log"
	"time"

	"campusfind/metrics"
	"campusfind/services"
)

// StaleCleaner is the administrative purge: reports older than the retention
// period are removed on a timer, together with their stored images. This is
// the only path besides the reporter's own mark-as-found that ever deletes
// an item.
type StaleCleaner struct {
	store     services.ItemStore
	storage   services.ImageStorage
	retention time.Duration
	interval  time.Duration
	logger    *log.Logger
	stopCh    chan struct{}
}

func NewStaleCleaner(store services.ItemStore, storage services.ImageStorage, retention, interval time.Duration) *StaleCleaner {
	return &StaleCleaner{
		store:     store,
		storage:   storage,
		retention: retention,
		interval:  interval,
		logger:    log.New(log.Writer(), "[STALE_CLEANER] ", log.LstdFlags),
		stopCh:    make(chan struct{}),
	}
}

// Start runs the cleanup loop until Stop is called. A retention of zero
// disables the job entirely.
func (sc *StaleCleaner) Start() {
	if sc.retention <= 0 {
		sc.logger.Println("Retention disabled, stale cleaner not running")
		return
	}

	sc.logger.Printf("Starting stale cleaner: retention %v, interval %v", sc.retention, sc.interval)

	go func() {
		sc.runCleanup()

		ticker := time.NewTicker(sc.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sc.runCleanup()
			case <-sc.stopCh:
				return
			}
		}
	}()
}

func (sc *StaleCleaner) Stop() {
	close(sc.stopCh)
}

func (sc *StaleCleaner) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	items, err := sc.store.List(ctx)
	if err != nil {
		sc.logger.Printf("Error listing items for cleanup: %v", err)
		return
	}

	cutoff := time.Now().Add(-sc.retention)
	purged := 0

	for _, item := range items {
		if !item.DatePosted.Before(cutoff) {
			continue
		}

		if err := sc.store.Delete(ctx, item.ID.Hex()); err != nil {
			sc.logger.Printf("Failed to purge item %s: %v", item.ID.Hex(), err)
			continue
		}

		if item.ImageRef != "" && sc.storage != nil {
			if err := sc.storage.Delete(ctx, item.ImageRef); err != nil {
				sc.logger.Printf("Purged item %s but image cleanup failed: %v", item.ID.Hex(), err)
			}
		}

		metrics.ItemsPurged.Inc()
		purged++
		sc.logger.Printf("Purged stale item: %s (%s)", item.Name, item.ID.Hex())
	}

	if purged > 0 {
		sc.logger.Printf("Stale cleanup completed, purged %d items", purged)
	}
}
