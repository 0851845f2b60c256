package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteRecordStore is a SQLite-backed implementation of RecordStore using
// gorm. Suitable for single-node deployments that need queryable history.
type SQLiteRecordStore struct {
	db *gorm.DB
}

// NewSQLiteRecordStore opens (or creates) the database at path and migrates
// the record schema. Use ":memory:" for an ephemeral database.
func NewSQLiteRecordStore(path string) (*SQLiteRecordStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&HandoffRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return &SQLiteRecordStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteRecordStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the store is healthy.
func (s *SQLiteRecordStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Save persists a record.
func (s *SQLiteRecordStore) Save(ctx context.Context, rec *HandoffRecord) error {
	if rec == nil {
		return ErrInvalidInput
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	return s.db.WithContext(ctx).Save(rec).Error
}

// Get returns the record with the given ID.
func (s *SQLiteRecordStore) Get(ctx context.Context, id string) (*HandoffRecord, error) {
	var rec HandoffRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns the most recent records, newest first.
func (s *SQLiteRecordStore) List(ctx context.Context, limit int) ([]*HandoffRecord, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []*HandoffRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Purge removes records created before the cutoff.
func (s *SQLiteRecordStore) Purge(ctx context.Context, before time.Time) (int, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", before).Delete(&HandoffRecord{})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
