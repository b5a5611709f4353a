// Package store persists domain records in a flat collection per kind,
// keyed by record ID.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/faktury-dev/faktury/internal/config"
	"github.com/faktury-dev/faktury/internal/model"
)

// ErrNotFound is returned when no record has the requested key.
var ErrNotFound = errors.New("record not found")

// Record is anything a Collection can hold.
type Record interface {
	Key() string
}

// Collection is a flat set of records of one kind.
type Collection[T Record] interface {
	// All returns every record in insertion order.
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, key string) (T, error)
	// Put inserts rec or replaces the record with the same key.
	Put(ctx context.Context, rec T) error
	Delete(ctx context.Context, key string) error
}

// Store groups the collections of one workspace.
type Store struct {
	Invoices  Collection[model.Invoice]
	Drivers   Collection[model.Driver]
	Fuel      Collection[model.FuelEntry]
	Vehicles  Collection[model.Vehicle]
	Companies Collection[model.Company]

	close func() error
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open returns the store for the workspace at root using the configured
// backend.
func Open(ctx context.Context, root string, cfg config.StorageConfig) (*Store, error) {
	switch cfg.Backend {
	case config.BackendCSV, "":
		return OpenCSV(filepath.Join(root, DataDir)), nil
	case config.BackendSQLite:
		path := cfg.SQLitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
