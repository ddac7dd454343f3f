package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// CartService manages the cart lines of shoppers.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// AddItem puts qty units of a product in the user's cart, merging with an
// existing line for the same product. The resulting line quantity may not exceed
// the current stock.
func (s *CartService) AddItem(ctx context.Context, userID, productID, qty int) (*models.CartLine, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive number", models.ErrInvalidInput)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity < qty {
		return nil, fmt.Errorf("%w for product %d (requested: %d, available: %d)",
			models.ErrInsufficientStock, product.ID, qty, product.Quantity)
	}

	var saved models.CartLine
	err = s.carts.Mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, error) {
		for i := range lines {
			if lines[i].UserID != userID || lines[i].ProductID != productID {
				continue
			}
			merged := lines[i].Quantity + qty
			if merged > product.Quantity {
				return nil, fmt.Errorf("%w for product %d (in cart: %d, requested: %d, available: %d)",
					models.ErrInsufficientStock, product.ID, lines[i].Quantity, qty, product.Quantity)
			}
			lines[i].Quantity = merged
			saved = lines[i]
			return lines, nil
		}
		saved = models.CartLine{
			ID:        models.NextID(lines),
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
		}
		return append(lines, saved), nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// RemoveItem deletes the line with lineID if it belongs to userID. A line that
// does not exist or belongs to someone else is left alone without error.
func (s *CartService) RemoveItem(ctx context.Context, lineID, userID int) error {
	return s.carts.Mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, error) {
		kept := lines[:0]
		for _, l := range lines {
			if l.ID == lineID && l.UserID == userID {
				continue
			}
			kept = append(kept, l)
		}
		return kept, nil
	})
}

// GetCart returns the user's lines joined with the live product data. Lines whose
// product is gone come back without product and total.
func (s *CartService) GetCart(ctx context.Context, userID int) ([]models.CartItem, error) {
	lines, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		item := models.CartItem{CartLine: l}
		if p, ok := byID[l.ProductID]; ok {
			total := lineTotal(p.Price, l.Quantity)
			item.Product = &models.CartProduct{
				ID:       p.ID,
				Title:    p.Title,
				Price:    p.Price,
				Image:    p.Image,
				Quantity: p.Quantity,
			}
			item.TotalPrice = &total
		}
		items = append(items, item)
	}
	return items, nil
}

func lineTotal(price float64, quantity int) float64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).InexactFloat64()
}
