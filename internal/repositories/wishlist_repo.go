package repositories

import (
	"context"

	"marketplace/internal/models"
	"marketplace/internal/store"
)

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	GetByUser(ctx context.Context, userID int) ([]models.WishlistLine, error)
	Mutate(ctx context.Context, fn func([]models.WishlistLine) ([]models.WishlistLine, error)) error
}

type CollectionWishlistRepository struct {
	lines *store.Collection[models.WishlistLine]
}

func NewWishlistRepository(db *store.DB) *CollectionWishlistRepository {
	return &CollectionWishlistRepository{
		lines: store.NewCollection[models.WishlistLine](db, store.Wishlists),
	}
}

func (r *CollectionWishlistRepository) GetByUser(ctx context.Context, userID int) ([]models.WishlistLine, error) {
	lines, err := r.lines.Load(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.WishlistLine, 0, len(lines))
	for _, l := range lines {
		if l.UserID == userID {
			owned = append(owned, l)
		}
	}
	return owned, nil
}

func (r *CollectionWishlistRepository) Mutate(ctx context.Context, fn func([]models.WishlistLine) ([]models.WishlistLine, error)) error {
	return r.lines.Update(ctx, fn)
}
