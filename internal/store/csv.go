package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/faktury-dev/faktury/internal/model"
)

// DataDir is the workspace directory holding the CSV files.
const DataDir = "data"

// codec maps a record type onto CSV rows.
type codec[T Record] struct {
	header    []string
	marshal   func(T) []string
	unmarshal func([]string) (T, error)
}

// csvCollection keeps one CSV file per record kind. Every write rewrites
// the file through a temp file and rename.
type csvCollection[T Record] struct {
	mu    sync.Mutex
	path  string
	codec codec[T]
}

// OpenCSV returns a store backed by CSV files under dir.
func OpenCSV(dir string) *Store {
	return &Store{
		Invoices:  newCSVCollection(filepath.Join(dir, "invoices.csv"), invoiceCodec),
		Drivers:   newCSVCollection(filepath.Join(dir, "drivers.csv"), driverCodec),
		Fuel:      newCSVCollection(filepath.Join(dir, "fuel.csv"), fuelCodec),
		Vehicles:  newCSVCollection(filepath.Join(dir, "vehicles.csv"), vehicleCodec),
		Companies: newCSVCollection(filepath.Join(dir, "companies.csv"), companyCodec),
	}
}

func newCSVCollection[T Record](path string, c codec[T]) *csvCollection[T] {
	return &csvCollection[T]{path: path, codec: c}
}

func (c *csvCollection[T]) All(_ context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *csvCollection[T]) Get(_ context.Context, key string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	recs, err := c.read()
	if err != nil {
		return zero, err
	}
	for _, r := range recs {
		if r.Key() == key {
			return r, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", filepath.Base(c.path), key, ErrNotFound)
}

func (c *csvCollection[T]) Put(_ context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.read()
	if err != nil {
		return err
	}
	replaced := false
	for i, r := range recs {
		if r.Key() == rec.Key() {
			recs[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec)
	}
	return c.write(recs)
}

func (c *csvCollection[T]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.read()
	if err != nil {
		return err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.Key() != key {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(recs) {
		return fmt.Errorf("%s %q: %w", filepath.Base(c.path), key, ErrNotFound)
	}
	return c.write(kept)
}

func (c *csvCollection[T]) read() ([]T, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(c.path), err)
	}
	defer f.Close()

	recs, err := readRecords(f, c.codec)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(c.path), err)
	}
	return recs, nil
}

func (c *csvCollection[T]) write(recs []T) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeRecords(tmp, c.codec, recs); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(c.path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(c.path), err)
	}
	return nil
}

func readRecords[T Record](r io.Reader, c codec[T]) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(c.header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) <= 1 {
		return nil, nil
	}

	out := make([]T, 0, len(records)-1)
	for i, rec := range records[1:] {
		v, err := c.unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeRecords[T Record](w io.Writer, c codec[T], recs []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range recs {
		if err := cw.Write(c.marshal(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

var _ Collection[model.Invoice] = (*csvCollection[model.Invoice])(nil)
