package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// ProductService is the shopper-facing side of the stock ledger.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
	log    zerolog.Logger
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events EventPublisher, log zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProductsByCategory returns products whose category equals category ignoring
// case. An empty result is ErrNotFound.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Product, 0)
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("no products in category %q: %w", category, models.ErrNotFound)
	}
	return matched, nil
}

// Purchase takes quantity units of a product out of stock and returns the
// product as persisted. The buyer's cart is not touched.
func (s *ProductService) Purchase(ctx context.Context, buyerID, productID, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive number", models.ErrInvalidInput)
	}

	var bought models.Product
	err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		i := indexOfProduct(products, productID)
		if i < 0 {
			return nil, fmt.Errorf("product with ID %d: %w", productID, models.ErrNotFound)
		}
		p := &products[i]
		if quantity > p.Quantity {
			return nil, fmt.Errorf("%w for product %d (requested: %d, available: %d)",
				models.ErrInsufficientStock, p.ID, quantity, p.Quantity)
		}
		p.Quantity -= quantity
		if p.Quantity < 0 {
			p.Quantity = 0
		}
		bought = *p
		return products, nil
	})
	if err != nil {
		return nil, err
	}

	s.publishPurchase(ctx, StockEvent{
		ProductID: bought.ID,
		BuyerID:   buyerID,
		Quantity:  quantity,
		Remaining: bought.Quantity,
		SoldOut:   bought.Quantity == 0,
		At:        time.Now().UTC(),
	})
	return &bought, nil
}

// publishPurchase is best effort: the stock change is already persisted.
func (s *ProductService) publishPurchase(ctx context.Context, event StockEvent) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Int("product_id", event.ProductID).Msg("marshal stock event")
		return
	}
	if err := s.events.Publish(ctx, RoutingProductPurchased, body); err != nil {
		s.log.Warn().Err(err).Int("product_id", event.ProductID).Msg("failed to publish stock event")
	}
}

func indexOfProduct(products []models.Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
