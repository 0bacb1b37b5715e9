package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item is a single lost/found report. Records are immutable after
// creation: they are only ever deleted, never edited.
type Item struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID    string             `bson:"reporter_id" json:"reporter_id"`
	ItemType      string             `bson:"item_type" json:"item_type"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	LocationLabel string             `bson:"location_label" json:"location_label"`
	Contact       string             `bson:"contact" json:"contact"`
	DateLost      time.Time          `bson:"date_lost" json:"date_lost"`
	DatePosted    time.Time          `bson:"date_posted" json:"date_posted"`
	ImageRef      string             `bson:"image_ref,omitempty" json:"image_ref,omitempty"`
}

// Validate checks the required fields and the itemType enum. It returns a
// *ValidationError naming the first offending field.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.ReporterID) == "" {
		return NewValidationError("reporter_id", "reporter id is required")
	}
	if i.ItemType != ItemTypeLost && i.ItemType != ItemTypeFound {
		return NewValidationError("item_type", "item type must be 'lost' or 'found'")
	}
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("name", "item name is required")
	}
	if strings.TrimSpace(i.Description) == "" {
		return NewValidationError("description", "description is required")
	}
	if strings.TrimSpace(i.LocationLabel) == "" {
		return NewValidationError("location_label", "room/hostel location is required")
	}
	if strings.TrimSpace(i.Contact) == "" {
		return NewValidationError("contact", "contact info is required")
	}
	if i.DateLost.IsZero() {
		return NewValidationError("date_lost", "date lost/found is required")
	}
	return nil
}
