package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"campusfind/models"

	"github.com/google/uuid"
)

// LocalStorage keeps item photos on the local disk under uploadDir and
// serves them from baseURL + /uploads/. Meant for single-node deployments
// and development; B2Storage is the production backend.
type LocalStorage struct {
	uploadDir string
	baseURL   string
}

func NewLocalStorage(uploadDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", uploadDir, err)
	}
	return &LocalStorage{
		uploadDir: uploadDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	dst := filepath.Join(s.uploadDir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %v", models.ErrUploadFailed, dst, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("%w: failed to write %s: %v", models.ErrUploadFailed, dst, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("%w: failed to close %s: %v", models.ErrUploadFailed, dst, err)
	}

	return s.baseURL + "/uploads/" + name, nil
}

func (s *LocalStorage) Delete(ctx context.Context, imageRef string) error {
	// The ref is baseURL + "/uploads/" + name; only the basename matters
	// here, which also keeps path traversal out of the upload dir.
	name := path.Base(imageRef)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("malformed image ref %q", imageRef)
	}

	if err := os.Remove(filepath.Join(s.uploadDir, name)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// Dir exposes the upload directory so the router can serve it statically.
func (s *LocalStorage) Dir() string {
	return s.uploadDir
}
