package persistence

import (
	"fmt"

	"github.com/mindrian/handoffcore/config"
)

// NewRecordStore creates a RecordStore from configuration.
func NewRecordStore(cfg config.StoreConfig) (RecordStore, error) {
	switch StoreType(cfg.Backend) {
	case StoreTypeMemory, "":
		return NewMemoryRecordStore(), nil
	case StoreTypeFile:
		return NewFileRecordStore(cfg.Path)
	case StoreTypeRedis:
		return NewRedisRecordStore(RedisOptions{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			TTL:      cfg.TTL,
		})
	case StoreTypeSQLite:
		return NewSQLiteRecordStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported record store backend: %s", cfg.Backend)
	}
}

// MustNewRecordStore creates a RecordStore or panics. Only for use during
// application initialization.
func MustNewRecordStore(cfg config.StoreConfig) RecordStore {
	store, err := NewRecordStore(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create record store: %v", err))
	}
	return store
}
