package services

import (
	"context"
	"fmt"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
)

// WishlistService manages wishlist membership, at most one line per
// (user, product).
type WishlistService struct {
	wishlists repositories.WishlistRepository
	products  repositories.ProductRepository
	policy    models.IDPolicy
}

func NewWishlistService(wishlists repositories.WishlistRepository, products repositories.ProductRepository, policy models.IDPolicy) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		products:  products,
		policy:    policy,
	}
}

// AddItem adds productID to the user's wishlist. If it is already there the
// existing line is returned and created is false.
func (s *WishlistService) AddItem(ctx context.Context, userID, productID int) (line *models.WishlistLine, created bool, err error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, false, err
	}

	var saved models.WishlistLine
	err = s.wishlists.Mutate(ctx, func(lines []models.WishlistLine) ([]models.WishlistLine, error) {
		for _, l := range lines {
			if l.UserID == userID && l.ProductID == productID {
				saved = l
				return lines, nil
			}
		}
		saved = models.WishlistLine{
			ID:        models.NextID(lines),
			UserID:    userID,
			ProductID: productID,
		}
		created = true
		return append(lines, saved), nil
	})
	if err != nil {
		return nil, false, err
	}
	return &saved, created, nil
}

// RemoveItem drops productID from the user's wishlist. Under the compact id
// policy the remaining lines of every user are renumbered.
func (s *WishlistService) RemoveItem(ctx context.Context, userID, productID int) error {
	return s.wishlists.Mutate(ctx, func(lines []models.WishlistLine) ([]models.WishlistLine, error) {
		idx := -1
		for i, l := range lines {
			if l.ProductID == productID && l.UserID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("product %d in wishlist of user %d: %w", productID, userID, models.ErrNotFound)
		}
		lines = append(lines[:idx], lines[idx+1:]...)
		if s.policy == models.IDPolicyCompact {
			models.Compact(lines)
		}
		return lines, nil
	})
}

// GetWishlist returns the user's lines joined with product data; the product is
// nil when it was deleted.
func (s *WishlistService) GetWishlist(ctx context.Context, userID int) ([]models.WishlistItem, error) {
	lines, err := s.wishlists.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.WishlistItem, 0, len(lines))
	for _, l := range lines {
		item := models.WishlistItem{WishlistLine: l}
		if i := indexOfProduct(products, l.ProductID); i >= 0 {
			p := products[i]
			item.Product = &models.WishlistProduct{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
		}
		items = append(items, item)
	}
	return items, nil
}
