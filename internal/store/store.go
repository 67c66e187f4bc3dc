// Package store persists the dataset document and serializes every
// read-modify-write cycle on it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"haushaltsbuch/internal/logger"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/normalize"
)

// ErrNoDocument is returned by a Backend when nothing has been stored yet.
var ErrNoDocument = errors.New("store: no document")

// Backend reads and atomically replaces the raw dataset document.
type Backend interface {
	// Read returns the stored document or ErrNoDocument.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document. Readers see either the old or
	// the new document, never a mix.
	Write(ctx context.Context, doc []byte) error
	// Backup copies the current document aside under a name derived from
	// suffix and returns that name.
	Backup(ctx context.Context, suffix string) (string, error)
	// Location describes where the document lives, for logs.
	Location() string
}

// WriteObserver is notified after every successful write.
type WriteObserver func(backend string, bytes int)

// Repository guards a Backend with a single lock. Every operation loads the
// whole document, works on a private copy and writes it back before the
// lock is released.
type Repository struct {
	mu       sync.Mutex
	backend  Backend
	observer WriteObserver
	now      func() time.Time
}

// NewRepository creates a Repository over backend.
func NewRepository(backend Backend) *Repository {
	return &Repository{backend: backend, now: time.Now}
}

// OnWrite registers fn to be called after each successful write.
func (r *Repository) OnWrite(fn WriteObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// Location returns the backend location.
func (r *Repository) Location() string {
	return r.backend.Location()
}

// View loads the normalized dataset and passes it to fn. Changes made by fn
// are discarded.
func (r *Repository) View(ctx context.Context, fn func(ds *models.Dataset) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, _, err := r.load(ctx)
	if err != nil {
		return err
	}
	return fn(&ds)
}

// Update loads the normalized dataset and passes it to fn. The dataset is
// written back only when fn reports a change and returns no error.
func (r *Repository) Update(ctx context.Context, fn func(ds *models.Dataset) (bool, error)) error {
	return r.Apply(ctx, func(ds *models.Dataset, _ bool) (bool, error) {
		return fn(ds)
	})
}

// Apply is Update with the staleness of the stored document exposed: stale
// is true when the stored form was not already normalized.
func (r *Repository) Apply(ctx context.Context, fn func(ds *models.Dataset, stale bool) (bool, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, stale, err := r.load(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(&ds, stale)
	if err != nil || !changed {
		return err
	}
	return r.save(ctx, ds)
}

// load reads and normalizes the document. A missing document is created
// empty. A document that cannot be decoded is backed up and replaced by an
// empty one; the corruption is logged and never reported to the caller.
func (r *Repository) load(ctx context.Context) (models.Dataset, bool, error) {
	body, err := r.backend.Read(ctx)
	if errors.Is(err, ErrNoDocument) {
		ds := models.EmptyDataset()
		return ds, false, r.save(ctx, ds)
	}
	if err != nil {
		return models.Dataset{}, false, fmt.Errorf("read dataset: %w", err)
	}

	var raw models.RawDataset
	if err := decode(body, &raw); err != nil {
		suffix := fmt.Sprintf("%d.corrupt.bak", r.now().Unix())
		backup, berr := r.backend.Backup(ctx, suffix)
		if berr != nil {
			return models.Dataset{}, false, fmt.Errorf("back up corrupt dataset: %w", berr)
		}
		logger.Get().Warnw("dataset unreadable, reinitialized",
			"location", r.backend.Location(),
			"backup", backup,
			"error", err.Error(),
		)
		ds := models.EmptyDataset()
		return ds, false, r.save(ctx, ds)
	}

	ds, stale := normalize.Dataset(raw)
	return ds, stale, nil
}

func (r *Repository) save(ctx context.Context, ds models.Dataset) error {
	body, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := r.backend.Write(ctx, body); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	if r.observer != nil {
		r.observer(r.backend.Location(), len(body))
	}
	return nil
}

// decode parses a stored document. An empty or whitespace-only body counts
// as corrupt.
func decode(body []byte, raw *models.RawDataset) error {
	if strings.TrimSpace(string(body)) == "" {
		return errors.New("empty document")
	}
	return json.Unmarshal(body, raw)
}
