package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileRecordStore is a file-backed implementation of RecordStore.
// Suitable for single-node deployments. Records live in one JSON index file
// written atomically on every save.
type FileRecordStore struct {
	baseDir string
	records map[string]*HandoffRecord
	mu      sync.RWMutex
	closed  bool
}

// NewFileRecordStore creates a file-backed record store rooted at baseDir.
func NewFileRecordStore(baseDir string) (*FileRecordStore, error) {
	dir := filepath.Join(baseDir, "handoffs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create record store directory: %w", err)
	}

	store := &FileRecordStore{
		baseDir: dir,
		records: make(map[string]*HandoffRecord),
	}
	if err := store.loadFromDisk(); err != nil {
		return nil, fmt.Errorf("failed to load records from disk: %w", err)
	}
	return store, nil
}

func (s *FileRecordStore) indexPath() string {
	return filepath.Join(s.baseDir, "index.json")
}

func (s *FileRecordStore) loadFromDisk() error {
	data, err := os.ReadFile(s.indexPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var records map[string]*HandoffRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	if records != nil {
		s.records = records
	}
	return nil
}

// saveToDisk writes the whole index atomically: temp file then rename.
func (s *FileRecordStore) saveToDisk() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return err
	}

	tempPath := s.indexPath() + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tempPath, s.indexPath())
}

// Close flushes and closes the store.
func (s *FileRecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.saveToDisk()
}

// Ping checks if the store is healthy.
func (s *FileRecordStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	_, err := os.Stat(s.baseDir)
	return err
}

// Save persists a record.
func (s *FileRecordStore) Save(ctx context.Context, rec *HandoffRecord) error {
	if rec == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	clone := *rec
	s.records[rec.ID] = &clone
	return s.saveToDisk()
}

// Get returns the record with the given ID.
func (s *FileRecordStore) Get(ctx context.Context, id string) (*HandoffRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

// List returns the most recent records, newest first.
func (s *FileRecordStore) List(ctx context.Context, limit int) ([]*HandoffRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	out := make([]*HandoffRecord, 0, len(s.records))
	for _, rec := range s.records {
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Purge removes records created before the cutoff.
func (s *FileRecordStore) Purge(ctx context.Context, before time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}

	removed := 0
	for id, rec := range s.records {
		if rec.CreatedAt.Before(before) {
			delete(s.records, id)
			removed++
		}
	}
	if removed > 0 {
		if err := s.saveToDisk(); err != nil {
			return removed, err
		}
	}
	return removed, nil
}
