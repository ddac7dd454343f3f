package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"marketplace/internal/services"
)

// WishlistHandler handles the shopper's wishlist.
type WishlistHandler struct {
	service *services.WishlistService
	log     zerolog.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService, log zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the wishlist routes behind guards.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/wishlist/add", guarded(guards, h.HandleAddItem)...)
	router.Delete("/wishlist/remove/:id", guarded(guards, h.HandleRemoveItem)...)
	router.Get("/wishlist", guarded(guards, h.HandleGetWishlist)...)
	router.Post("/wishlists", guarded(guards, h.HandleGetWishlist)...)
}

// AddWishlistItemRequest is the body of a wishlist addition.
type AddWishlistItemRequest struct {
	ProductID int `json:"productId"`
}

// HandleAddItem adds a product to the caller's wishlist. Adding a product that
// is already there answers 200 with the existing line.
func (h *WishlistHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddWishlistItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	line, created, err := h.service.AddItem(c.UserContext(), caller(c).ID, req.ProductID)
	if err != nil {
		return respondError(c, h.log, "Could not add product to wishlist", err)
	}
	if !created {
		return c.JSON(fiber.Map{
			"message": "Product is already in wishlist",
			"item":    line,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product is added to wishlist",
		"item":    line,
	})
}

// HandleRemoveItem removes a product, addressed by product id, from the
// caller's wishlist.
func (h *WishlistHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product id", nil)
	}
	if err := h.service.RemoveItem(c.UserContext(), caller(c).ID, productID); err != nil {
		return respondError(c, h.log, "Could not remove product from wishlist", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product is removed from wishlist",
	})
}

// HandleGetWishlist returns the caller's wishlist joined with product data.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	items, err := h.service.GetWishlist(c.UserContext(), caller(c).ID)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve wishlist", err)
	}
	return c.JSON(items)
}
