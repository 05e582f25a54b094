// Package upload stores project images under a publicly served directory.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

// Disk writes uploads to Dir and returns paths under PublicPrefix.
type Disk struct {
	Dir          string
	PublicPrefix string
	MaxBytes     int64
	now          func() time.Time
}

func NewDisk(dir, publicPrefix string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{
		Dir:          dir,
		PublicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		MaxBytes:     maxBytes,
		now:          time.Now,
	}, nil
}

// Save copies the uploaded file to disk under a fresh name and returns its
// public path, e.g. /uploads/1717171717171-1a2b3c4d.png.
func (d *Disk) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", &domain.UploadError{Err: errors.New("empty file")}
	}
	if d.MaxBytes > 0 && fh.Size > d.MaxBytes {
		return "", &domain.UploadError{Err: fmt.Errorf("file exceeds %d bytes", d.MaxBytes)}
	}

	src, err := fh.Open()
	if err != nil {
		return "", &domain.UploadError{Err: err}
	}
	defer src.Close()

	name := d.fileName(fh.Filename)
	dstPath := filepath.Join(d.Dir, name)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &domain.UploadError{Err: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", &domain.UploadError{Err: err}
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", &domain.UploadError{Err: err}
	}

	return path.Join(d.PublicPrefix, name), nil
}

// Remove deletes a file previously returned by Save. Paths outside the
// public prefix are ignored.
func (d *Disk) Remove(publicPath string) error {
	prefix := d.PublicPrefix + "/"
	if !strings.HasPrefix(publicPath, prefix) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, prefix))
	if err := os.Remove(filepath.Join(d.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Disk) fileName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	return fmt.Sprintf("%d-%s%s", d.now().UnixMilli(), uuid.NewString()[:8], ext)
}
