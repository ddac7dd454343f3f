package repositories

import (
	"context"
	"fmt"

	"marketplace/internal/models"
	"marketplace/internal/store"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (*models.Product, error)
	// Mutate replaces the collection with fn's result under the collection lock.
	Mutate(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error
}

// CollectionProductRepository stores products in the products collection.
type CollectionProductRepository struct {
	products *store.Collection[models.Product]
}

// NewProductRepository creates a new instance of CollectionProductRepository.
func NewProductRepository(db *store.DB) *CollectionProductRepository {
	return &CollectionProductRepository{
		products: store.NewCollection[models.Product](db, store.Products),
	}
}

// GetAll returns all products in stored order.
func (r *CollectionProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.products.Load(ctx)
}

// GetByID returns a product by its ID.
func (r *CollectionProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	products, err := r.products.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
}

func (r *CollectionProductRepository) Mutate(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	return r.products.Update(ctx, fn)
}
