package services

import (
	"context"
	"io"
)

// ImageStorage is the pluggable backend for submitted photos. Upload returns
// a URL suitable for storing as the item's imageRef; Delete takes that same
// URL back. Which backend runs is a configuration concern, not a code fork.
type ImageStorage interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Delete(ctx context.Context, imageRef string) error
}
