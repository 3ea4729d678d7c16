package activation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/edgard/odinbot/internal/logger"
)

const lockRetryDelay = 10 * time.Millisecond

// FileStore persists the set as a JSON array of chat ids in a single file.
// Every call re-reads the file; mutations rewrite it whole through a temp file
// and rename. Read-modify-write cycles hold a mutex and an advisory lock on
// "<path>.lock", so processes sharing the file do not lose each other's adds.
type FileStore struct {
	path   string
	mu     sync.Mutex
	flock  *flock.Flock
	logger *slog.Logger
}

// NewFileStore returns a store backed by the JSON document at path.
// The file does not need to exist.
func NewFileStore(path string, log *slog.Logger) *FileStore {
	if log == nil {
		log = logger.Discard()
	}
	return &FileStore{
		path:   path,
		flock:  flock.New(path + ".lock"),
		logger: log.With("component", "file_store", "path", path),
	}
}

// LoadAll reads every id from the file. A missing file is an empty set.
func (f *FileStore) LoadAll(ctx context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(ctx)
}

// Contains reports whether chatID is in the file.
func (f *FileStore) Contains(ctx context.Context, chatID int64) (bool, error) {
	ids, err := f.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, chatID), nil
}

// Add appends chatID to the file if absent.
func (f *FileStore) Add(ctx context.Context, chatID int64) (bool, error) {
	unlock, err := f.lock(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	ids, err := f.read(ctx)
	if err != nil {
		return false, err
	}
	if slices.Contains(ids, chatID) {
		return false, nil
	}

	if err := f.write(append(ids, chatID)); err != nil {
		return false, err
	}
	f.logger.DebugContext(ctx, "Chat id written", "chat_id", chatID, "count", len(ids)+1)
	return true, nil
}

// Maintain rewrites the file deduplicated and sorted.
func (f *FileStore) Maintain(ctx context.Context) error {
	unlock, err := f.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	ids, err := f.read(ctx)
	if err != nil {
		return err
	}
	slices.Sort(ids)
	compacted := slices.Compact(ids)
	if err := f.write(compacted); err != nil {
		return err
	}
	f.logger.InfoContext(ctx, "Activation file compacted", "before", len(ids), "after", len(compacted))
	return nil
}

// lock takes the in-process mutex and then the cross-process file lock.
func (f *FileStore) lock(ctx context.Context) (func(), error) {
	f.mu.Lock()
	locked, err := f.flock.TryLockContext(ctx, lockRetryDelay)
	if err == nil && !locked {
		err = errors.New("lock not acquired")
	}
	if err != nil {
		f.mu.Unlock()
		return nil, fmt.Errorf("failed to lock %s: %w", f.flock.Path(), err)
	}
	return func() {
		if err := f.flock.Unlock(); err != nil {
			f.logger.Warn("Failed to release file lock", "error", err)
		}
		f.mu.Unlock()
	}, nil
}

func (f *FileStore) read(ctx context.Context) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return []int64{}, nil
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return ids, nil
}

func (f *FileStore) write(ids []int64) (err error) {
	if ids == nil {
		ids = []int64{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode chat ids: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
