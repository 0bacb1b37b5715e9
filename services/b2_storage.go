package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"campusfind/models"

	"github.com/google/uuid"
	"github.com/kurin/blazer/b2"
)

// B2Storage stores item photos in a Backblaze B2 bucket and hands out
// signed download URLs.
type B2Storage struct {
	client     *b2.Client
	bucketName string
	bucket     *b2.Bucket
	urlExpiry  time.Duration
}

func NewB2Storage(keyID, applicationKey, bucketName string) (*B2Storage, error) {
	ctx := context.Background()

	client, err := b2.NewClient(ctx, keyID, applicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	return &B2Storage{
		client:     client,
		bucketName: bucketName,
		bucket:     bucket,
		urlExpiry:  7 * 24 * time.Hour,
	}, nil
}

func (s *B2Storage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	objectName := fmt.Sprintf("items/%s%s", uuid.NewString(), strings.ToLower(path.Ext(filename)))

	obj := s.bucket.Object(objectName)
	writer := obj.NewWriter(ctx)

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("%w: failed to upload to B2: %v", models.ErrUploadFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to close B2 writer: %v", models.ErrUploadFailed, err)
	}

	signed, err := obj.AuthURL(ctx, s.urlExpiry, "GET")
	if err != nil {
		return "", fmt.Errorf("%w: failed to sign B2 URL: %v", models.ErrUploadFailed, err)
	}

	return signed.String(), nil
}

func (s *B2Storage) Delete(ctx context.Context, imageRef string) error {
	objectName, err := s.objectNameFromRef(imageRef)
	if err != nil {
		return err
	}

	if err := s.bucket.Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s from B2: %w", objectName, err)
	}
	return nil
}

// objectNameFromRef recovers the object name from a signed download URL,
// whose path has the form /file/<bucket>/<object>.
func (s *B2Storage) objectNameFromRef(imageRef string) (string, error) {
	u, err := url.Parse(imageRef)
	if err != nil {
		return "", fmt.Errorf("malformed image ref %q: %w", imageRef, err)
	}

	prefix := "/file/" + s.bucketName + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", fmt.Errorf("image ref %q does not belong to bucket %s", imageRef, s.bucketName)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}
