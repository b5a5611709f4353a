package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/faktury-dev/faktury/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Document kinds in the documents table.
const (
	kindInvoice = "invoice"
	kindDriver  = "driver"
	kindFuel    = "fuel"
	kindVehicle = "vehicle"
	kindCompany = "company"
)

// OpenSQLite opens (creating if needed) the database at path, applies
// migrations and returns a store over it.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database dir: %w", err)
	}
	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{
		Invoices:  &sqliteCollection[model.Invoice]{db: db, kind: kindInvoice},
		Drivers:   &sqliteCollection[model.Driver]{db: db, kind: kindDriver},
		Fuel:      &sqliteCollection[model.FuelEntry]{db: db, kind: kindFuel},
		Vehicles:  &sqliteCollection[model.Vehicle]{db: db, kind: kindVehicle},
		Companies: &sqliteCollection[model.Company]{db: db, kind: kindCompany},
		close:     db.Close,
	}, nil
}

// RunMigrations brings the schema at dbPath up to date.
func RunMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// sqliteCollection stores records as JSON documents of one kind.
type sqliteCollection[T Record] struct {
	db   *sql.DB
	kind string
}

func (c *sqliteCollection[T]) All(ctx context.Context) ([]T, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE kind = ? ORDER BY seq`, c.kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", c.kind, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", c.kind, err)
		}
		var rec T
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", c.kind, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *sqliteCollection[T]) Get(ctx context.Context, key string) (T, error) {
	var rec T
	var body string
	err := c.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE kind = ? AND id = ?`, c.kind, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%s %q: %w", c.kind, key, ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("loading %s %q: %w", c.kind, key, err)
	}
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return rec, fmt.Errorf("decoding %s %q: %w", c.kind, key, err)
	}
	return rec, nil
}

func (c *sqliteCollection[T]) Put(ctx context.Context, rec T) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding %s %q: %w", c.kind, rec.Key(), err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (kind, id, seq, body)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM documents WHERE kind = ?), ?)
		ON CONFLICT (kind, id) DO UPDATE SET
			body = excluded.body,
			updated_at = strftime('%Y-%m-%dT%H:%M:%S', 'now')`,
		c.kind, rec.Key(), c.kind, string(body))
	if err != nil {
		return fmt.Errorf("saving %s %q: %w", c.kind, rec.Key(), err)
	}
	return nil
}

func (c *sqliteCollection[T]) Delete(ctx context.Context, key string) error {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM documents WHERE kind = ? AND id = ?`, c.kind, key)
	if err != nil {
		return fmt.Errorf("deleting %s %q: %w", c.kind, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s %q: %w", c.kind, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", c.kind, key, ErrNotFound)
	}
	return nil
}
