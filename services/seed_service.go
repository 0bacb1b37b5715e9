package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"campusfind/models"
	"campusfind/utils"
)

// seedItem is the on-disk fixture shape: the submitter-supplied fields only,
// since the store assigns ids and post dates on insert.
type seedItem struct {
	ReporterID    string `json:"reporter_id"`
	ItemType      string `json:"item_type"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	LocationLabel string `json:"location_label"`
	Contact       string `json:"contact"`
	DateLost      string `json:"date_lost"` // YYYY-MM-DD
	ImageRef      string `json:"image_ref,omitempty"`
}

// LoadSeedItems loads a demo fixture into the store, once, and only when the
// store is empty. Seed data is never merged with live data at render time;
// after this it is ordinary store content like any other report.
func LoadSeedItems(ctx context.Context, store ItemStore, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	existing, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: cannot inspect store: %w", err)
	}
	if len(existing) > 0 {
		utils.LogInfo(fmt.Sprintf("seed: store already has %d items, skipping %s", len(existing), path))
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed: cannot read %s: %w", path, err)
	}

	var fixtures []seedItem
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return 0, fmt.Errorf("seed: malformed fixture %s: %w", path, err)
	}

	loaded := 0
	for _, f := range fixtures {
		dateLost, err := time.Parse("2006-01-02", f.DateLost)
		if err != nil {
			return loaded, fmt.Errorf("seed: bad date_lost %q: %w", f.DateLost, err)
		}

		item := &models.Item{
			ReporterID:    f.ReporterID,
			ItemType:      f.ItemType,
			Name:          f.Name,
			Description:   f.Description,
			LocationLabel: f.LocationLabel,
			Contact:       f.Contact,
			DateLost:      dateLost,
			ImageRef:      f.ImageRef,
		}
		if _, err := store.Create(ctx, item); err != nil {
			return loaded, fmt.Errorf("seed: failed to insert %q: %w", f.Name, err)
		}
		loaded++
	}

	return loaded, nil
}
