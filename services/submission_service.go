package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"campusfind/metrics"
	"campusfind/models"
	"campusfind/utils"
)

// MaxImageSize is the cap on submitted photos when no cap is configured.
const MaxImageSize = 10 << 20 // 10 MiB

// Matcher is the advisory similarity hook. Implementations must never block
// submission: failures come back as an empty match list, not an error.
type Matcher interface {
	FindMatches(ctx context.Context, image []byte, contentType string, candidates []models.Item) []string
}

// SubmissionRequest is one multipart report: the form fields plus the
// optional photo already read into memory (the size cap makes that safe).
type SubmissionRequest struct {
	ReporterID    string
	ItemType      string
	Name          string
	Description   string
	LocationLabel string
	Contact       string
	DateLost      time.Time

	Image         []byte
	ImageFilename string
	ImageMimeType string
}

// SubmissionResult is the created item plus any advisory matches.
type SubmissionResult struct {
	Item    *models.Item `json:"item"`
	Matches []string     `json:"matches,omitempty"`
}

type SubmissionService struct {
	store    ItemStore
	storage  ImageStorage
	matcher  Matcher
	maxImage int64
}

// NewSubmissionService wires the pipeline. maxImageSize caps submitted photos
// in bytes; zero or negative falls back to MaxImageSize.
func NewSubmissionService(store ItemStore, storage ImageStorage, matcher Matcher, maxImageSize int64) *SubmissionService {
	if maxImageSize <= 0 {
		maxImageSize = MaxImageSize
	}
	return &SubmissionService{
		store:    store,
		storage:  storage,
		matcher:  matcher,
		maxImage: maxImageSize,
	}
}

// Submit runs the whole pipeline: identity check, field validation, image
// checks and upload, record creation, then the best-effort match hook. The
// image upload completes (or fails) before the record is created so the
// store never holds a record pointing at a missing image; conversely a
// record that fails to persist takes its uploaded image with it.
func (s *SubmissionService) Submit(ctx context.Context, req SubmissionRequest) (*SubmissionResult, error) {
	if req.ReporterID == "" {
		return nil, models.ErrUnauthenticated
	}

	item := &models.Item{
		ReporterID:    req.ReporterID,
		ItemType:      req.ItemType,
		Name:          req.Name,
		Description:   req.Description,
		LocationLabel: req.LocationLabel,
		Contact:       req.Contact,
		DateLost:      req.DateLost,
	}

	// Reject bad fields before touching image storage.
	if err := item.Validate(); err != nil {
		return nil, err
	}

	// Candidates for the match hook are snapshotted before the new record
	// lands, so the new item never matches itself.
	var candidates []models.Item
	if len(req.Image) > 0 && s.matcher != nil {
		if existing, err := s.store.List(ctx); err == nil {
			candidates = existing
		}
	}

	if len(req.Image) > 0 {
		if err := s.validateImage(req); err != nil {
			return nil, err
		}

		imageRef, err := s.storage.Upload(ctx, bytes.NewReader(req.Image), req.ImageFilename, req.ImageMimeType)
		if err != nil {
			metrics.UploadFailures.Inc()
			if errors.Is(err, models.ErrUploadFailed) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", models.ErrUploadFailed, err)
		}
		item.ImageRef = imageRef
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		// Release the uncommitted blob rather than leaving an orphan.
		if item.ImageRef != "" {
			if delErr := s.storage.Delete(ctx, item.ImageRef); delErr != nil {
				utils.LogWarning(fmt.Sprintf("failed to release orphaned image %s: %v", item.ImageRef, delErr))
			}
		}
		return nil, err
	}

	metrics.ItemsSubmitted.WithLabelValues(created.ItemType).Inc()

	result := &SubmissionResult{Item: created}
	if len(req.Image) > 0 && s.matcher != nil {
		result.Matches = s.matcher.FindMatches(ctx, req.Image, req.ImageMimeType, candidates)
	}

	return result, nil
}

func (s *SubmissionService) validateImage(req SubmissionRequest) error {
	if int64(len(req.Image)) > s.maxImage {
		return &models.InvalidUploadError{Reason: fmt.Sprintf("image exceeds the %d byte limit", s.maxImage)}
	}
	if !utils.IsAllowedImageType(req.ImageMimeType) {
		return &models.InvalidUploadError{Reason: fmt.Sprintf("%s is not an image type", req.ImageMimeType)}
	}
	return nil
}
