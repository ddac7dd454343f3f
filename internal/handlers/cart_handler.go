package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"marketplace/internal/services"
)

// CartHandler handles the shopper's cart.
type CartHandler struct {
	service *services.CartService
	log     zerolog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the cart routes behind guards.
func (h *CartHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/cart/add", guarded(guards, h.HandleAddItem)...)
	router.Delete("/cart/remove/:id", guarded(guards, h.HandleRemoveItem)...)
	router.Get("/cart", guarded(guards, h.HandleGetCart)...)
	router.Post("/cart", guarded(guards, h.HandleGetCart)...)
}

// AddCartItemRequest is the body of a cart addition.
type AddCartItemRequest struct {
	ProductID int `json:"productId"`
	Qty       int `json:"qty"`
}

// HandleAddItem adds a product to the caller's cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	line, err := h.service.AddItem(c.UserContext(), caller(c).ID, req.ProductID, req.Qty)
	if err != nil {
		return respondError(c, h.log, "Could not add product to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product is added to cart",
		"item":    line,
	})
}

// HandleRemoveItem removes a cart line by its id.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid cart item id", nil)
	}
	if err := h.service.RemoveItem(c.UserContext(), id, caller(c).ID); err != nil {
		return respondError(c, h.log, "Could not remove product from cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product is removed from cart",
	})
}

// HandleGetCart returns the caller's cart joined with product data.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.service.GetCart(c.UserContext(), caller(c).ID)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve cart", err)
	}
	return c.JSON(items)
}
