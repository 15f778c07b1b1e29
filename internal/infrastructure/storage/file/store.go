// Package file persists the record list as a single JSON document.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"labelkit/internal/domain/labels"
	"labelkit/internal/infrastructure/storage/snapshot"
	"labelkit/pkg/logger"
)

// Store keeps the snapshot in one file. Writes go to a temp file in the
// same directory that is renamed over the target, so a reader never sees
// a partially written list.
type Store struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

var _ labels.Repository = (*Store)(nil)

// New creates a store at path. The file is created on first save.
func New(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{
		path: path,
		log:  log.WithComponent("file_store").With("path", path),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// LoadAll reads the stored list. A missing file is an empty list; an
// unparseable file is logged and treated as empty.
func (s *Store) LoadAll(ctx context.Context) ([]labels.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []labels.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	records, err := snapshot.Decode(data)
	if err != nil {
		s.log.WithContext(ctx).Warnw("stored labels unreadable, starting empty", "error", err)
		return []labels.Record{}, nil
	}
	return records, nil
}

// SaveAll replaces the stored list.
func (s *Store) SaveAll(ctx context.Context, records []labels.Record) error {
	data, err := snapshot.Encode(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := WriteAtomic(s.path, data, 0o644); err != nil {
		return err
	}

	s.log.WithContext(ctx).Debugw("labels saved", "records", len(records))
	return nil
}

// Ping reports whether the target directory is usable.
func (s *Store) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// WriteAtomic writes data to path through a renamed temp file.
func WriteAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
