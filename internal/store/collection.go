package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"marketplace/internal/models"
)

// DB hands out collections over a Store. Collections of the same name obtained
// from one DB share a write lock.
type DB struct {
	store Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDB wraps s.
func NewDB(s Store) *DB {
	return &DB{
		store: s,
		locks: make(map[string]*sync.Mutex),
	}
}

// Close closes the underlying medium.
func (db *DB) Close() error { return db.store.Close() }

func (db *DB) lock(name string) *sync.Mutex {
	db.mu.Lock()
	defer db.mu.Unlock()

	l, ok := db.locks[name]
	if !ok {
		l = &sync.Mutex{}
		db.locks[name] = l
	}
	return l
}

// Collection is an ordered sequence of records of one type, persisted as a unit.
type Collection[T any] struct {
	name  string
	store Store
	mu    *sync.Mutex
}

// NewCollection returns the collection called name.
func NewCollection[T any](db *DB, name string) *Collection[T] {
	return &Collection[T]{
		name:  name,
		store: db.store,
		mu:    db.lock(name),
	}
}

// Load returns a snapshot of every record. A collection that was never written
// is empty.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	doc, err := c.store.Load(ctx, c.name)
	if err != nil {
		return nil, err
	}
	records := []T{}
	if len(doc) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", models.ErrIO, c.name, err)
	}
	return records, nil
}

// Save replaces the persisted collection with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, records)
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	doc, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", models.ErrIO, c.name, err)
	}
	return c.store.Save(ctx, c.name, doc)
}

// Update runs load, fn, save while holding the collection's write lock. If fn
// fails nothing is saved and its error is returned unchanged.
func (c *Collection[T]) Update(ctx context.Context, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}
