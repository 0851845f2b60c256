// Package persistence provides durable storage for handoff records.
//
// The orchestrator works without any store; a RecordStore is an optional
// collaborator that keeps an audit trail of executed handoffs.
//
// Supported backends:
// - Memory: for development and testing (default)
// - File: for single-node deployments
// - Redis: for distributed deployments
// - SQLite: for single-node deployments that need queryable history
package persistence

import (
	"context"
	"time"

	"github.com/mindrian/handoffcore/types"
)

// Common errors
var (
	ErrNotFound     = types.NewError(types.ErrNotFound, "record not found")
	ErrStoreClosed  = types.NewError(types.ErrStoreClosed, "store is closed")
	ErrInvalidInput = types.NewError(types.ErrStore, "invalid input")
)

// StoreType represents the type of storage backend.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeSQLite StoreType = "sqlite"
)

// HandoffRecord is the persisted trace of one executed handoff.
type HandoffRecord struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	HandoffID       string    `json:"handoff_id" gorm:"index;size:64"`
	Mode            string    `json:"mode" gorm:"size:32"`
	FromAgent       string    `json:"from_agent" gorm:"size:128"`
	ToAgent         string    `json:"to_agent" gorm:"size:128"`
	Success         bool      `json:"success"`
	Error           string    `json:"error,omitempty"`
	Confidence      float64   `json:"confidence"`
	Output          string    `json:"output,omitempty"`
	NeedsHumanInput bool      `json:"needs_human_input"`
	DurationMS      int64     `json:"duration_ms"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// RecordStore persists handoff records.
type RecordStore interface {
	// Save persists a record, assigning ID and CreatedAt when unset.
	Save(ctx context.Context, rec *HandoffRecord) error

	// Get returns the record with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*HandoffRecord, error)

	// List returns the most recent records, newest first. limit <= 0 means
	// no limit.
	List(ctx context.Context, limit int) ([]*HandoffRecord, error)

	// Purge removes records created before the cutoff and reports how many
	// were removed.
	Purge(ctx context.Context, before time.Time) (int, error)

	// Ping checks if the store is healthy.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
