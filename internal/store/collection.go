package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Zachkp/portfolio-backend/internal/domain"
)

// Record is anything stored in a collection file.
type Record interface {
	RecordID() string
}

// Collection is one JSON array file rewritten in full on every mutation.
// The mutex serializes read-modify-write cycles within this process only.
type Collection[T Record] struct {
	path string
	mu   sync.Mutex
}

// OpenCollection returns the collection stored at path, creating an empty
// array file if none exists yet.
func OpenCollection[T Record](path string) (*Collection[T], error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &domain.StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := writeFileAtomic(path, []byte("[]")); err != nil {
			return nil, &domain.StorageError{Op: "init", Path: path, Err: err}
		}
	case err != nil:
		return nil, &domain.StorageError{Op: "stat", Path: path, Err: err}
	}

	return &Collection[T]{path: path}, nil
}

func (c *Collection[T]) Path() string { return c.path }

// Load reads the whole collection in storage order.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Save replaces the whole collection.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

// Mutate loads the collection, hands it to fn and persists whatever fn
// returns. Nothing is written when fn fails.
func (c *Collection[T]) Mutate(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, &domain.StorageError{Op: "read", Path: c.path, Err: err}
	}

	records := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &domain.StorageError{Op: "decode", Path: c.path, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &domain.StorageError{Op: "encode", Path: c.path, Err: err}
	}
	if err := writeFileAtomic(c.path, data); err != nil {
		return &domain.StorageError{Op: "write", Path: c.path, Err: err}
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
