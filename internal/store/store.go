// Package store persists named collections as whole JSON documents.
//
// A Store only knows how to read and replace a document by name. Collection adds
// typed decoding and serializes load-modify-save cycles per collection name, so
// concurrent mutations of the same collection never lose each other's writes.
package store

import (
	"context"
	"fmt"

	"marketplace/internal/models"
)

// Names of the persisted collections.
const (
	Users     = "users"
	Products  = "products"
	Carts     = "carts"
	Wishlists = "wishlists"
)

// Store is a durable document medium keyed by collection name.
type Store interface {
	// Load returns the stored document, or nil if nothing was ever saved.
	Load(ctx context.Context, name string) ([]byte, error)
	// Save replaces the whole document. Readers see either the old or the new
	// document, never a mix.
	Save(ctx context.Context, name string, doc []byte) error
	Close() error
}

func ioError(op, name string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", models.ErrIO, op, name, err)
}
