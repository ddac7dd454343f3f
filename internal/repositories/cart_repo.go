package repositories

import (
	"context"

	"marketplace/internal/models"
	"marketplace/internal/store"
)

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	GetByUser(ctx context.Context, userID int) ([]models.CartLine, error)
	Mutate(ctx context.Context, fn func([]models.CartLine) ([]models.CartLine, error)) error
}

// CollectionCartRepository stores cart lines of every shopper in the carts collection.
type CollectionCartRepository struct {
	lines *store.Collection[models.CartLine]
}

func NewCartRepository(db *store.DB) *CollectionCartRepository {
	return &CollectionCartRepository{
		lines: store.NewCollection[models.CartLine](db, store.Carts),
	}
}

// GetByUser returns the lines owned by userID in stored order.
func (r *CollectionCartRepository) GetByUser(ctx context.Context, userID int) ([]models.CartLine, error) {
	lines, err := r.lines.Load(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.UserID == userID {
			owned = append(owned, l)
		}
	}
	return owned, nil
}

func (r *CollectionCartRepository) Mutate(ctx context.Context, fn func([]models.CartLine) ([]models.CartLine, error)) error {
	return r.lines.Update(ctx, fn)
}
