package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"marketplace/internal/services"
)

// ProductHandler serves the public catalog and purchases.
type ProductHandler struct {
	service *services.ProductService
	log     zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes. Reads are public; shopper
// guards the purchase route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, shopper ...fiber.Handler) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/product/:id", h.HandleGetProductByID)
	router.Get("/category/:category", h.HandleGetProductsByCategory)
	router.Post("/buy", guarded(shopper, h.HandleBuy)...)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product id", nil)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleGetProductsByCategory retrieves the products of one category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	category, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return badRequest(c, "Invalid category", err)
	}
	products, err := h.service.GetProductsByCategory(c.UserContext(), category)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// BuyRequest is the body of a purchase.
type BuyRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// HandleBuy decrements stock for the calling shopper.
func (h *ProductHandler) HandleBuy(c *fiber.Ctx) error {
	var req BuyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	product, err := h.service.Purchase(c.UserContext(), caller(c).ID, req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, h.log, "Purchase failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product purchased successfully",
		"product": product,
	})
}
