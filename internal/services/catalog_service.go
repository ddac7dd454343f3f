package services

import (
	"context"
	"fmt"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// CatalogService lets sellers manage their own products.
type CatalogService struct {
	repo repositories.ProductRepository
}

func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// AddProduct appends a product owned by sellerID with an unrated rating.
func (s *CatalogService) AddProduct(ctx context.Context, sellerID int, in models.NewProduct) (*models.Product, error) {
	if sellerID <= 0 {
		return nil, fmt.Errorf("%w: sellerId is required", models.ErrInvalidInput)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var created models.Product
	err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		created = models.Product{
			ID:          models.NextID(products),
			SellerID:    sellerID,
			Title:       in.Title,
			Price:       *in.Price,
			Description: in.Description,
			Category:    in.Category,
			Image:       in.Image,
			Rating:      models.Rating{Rate: 0, Count: 0},
			Quantity:    in.Quantity,
		}
		return append(products, created), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct applies patch to product id if sellerID owns it. A product that
// does not exist and one owned by another seller are both ErrNotFound.
func (s *CatalogService) UpdateProduct(ctx context.Context, id, sellerID int, patch models.ProductPatch) (*models.Product, error) {
	if err := validateInput(patch); err != nil {
		return nil, err
	}

	var updated models.Product
	err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		i := indexOfOwned(products, id, sellerID)
		if i < 0 {
			return nil, notOwned(id, sellerID)
		}
		patch.Apply(&products[i])
		updated = products[i]
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes product id if sellerID owns it. Remaining ids are kept.
func (s *CatalogService) DeleteProduct(ctx context.Context, id, sellerID int) error {
	return s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		i := indexOfOwned(products, id, sellerID)
		if i < 0 {
			return nil, notOwned(id, sellerID)
		}
		return append(products[:i], products[i+1:]...), nil
	})
}

// ListBySeller returns the products owned by sellerID.
func (s *CatalogService) ListBySeller(ctx context.Context, sellerID int) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]models.Product, 0)
	for _, p := range products {
		if p.SellerID == sellerID {
			owned = append(owned, p)
		}
	}
	return owned, nil
}

func indexOfOwned(products []models.Product, id, sellerID int) int {
	for i := range products {
		if products[i].ID == id && products[i].SellerID == sellerID {
			return i
		}
	}
	return -1
}

func notOwned(id, sellerID int) error {
	return fmt.Errorf("product %d of seller %d does not exist or is not owned: %w", id, sellerID, models.ErrNotFound)
}
