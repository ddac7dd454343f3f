package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/services"
)

// SellerHandler lets sellers manage their own catalog.
type SellerHandler struct {
	service *services.CatalogService
	log     zerolog.Logger
}

// NewSellerHandler creates a new SellerHandler.
func NewSellerHandler(service *services.CatalogService, log zerolog.Logger) *SellerHandler {
	return &SellerHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the seller routes behind guards. Every route
// carries :sellerId, which must be the caller.
func (h *SellerHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	guards = guarded(guards, middleware.RequireOwner("sellerId"))
	router.Post("/product/add/:sellerId", guarded(guards, h.HandleAddProduct)...)
	router.Put("/product/update/:id/:sellerId", guarded(guards, h.HandleUpdateProduct)...)
	router.Delete("/product/delete/:id/:sellerId", guarded(guards, h.HandleDeleteProduct)...)
	router.Get("/seller/products/:sellerId", guarded(guards, h.HandleListProducts)...)
}

// HandleAddProduct adds a product owned by the seller.
func (h *SellerHandler) HandleAddProduct(c *fiber.Ctx) error {
	var req models.NewProduct
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	product, err := h.service.AddProduct(c.UserContext(), caller(c).ID, req)
	if err != nil {
		return respondError(c, h.log, "Could not add product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product added successfully",
		"product": product,
	})
}

// HandleUpdateProduct applies a partial update to one of the seller's products.
func (h *SellerHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product id", nil)
	}
	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, caller(c).ID, patch)
	if err != nil {
		return respondError(c, h.log, "Could not update product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDeleteProduct removes one of the seller's products.
func (h *SellerHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := intParam(c, "id")
	if !ok {
		return badRequest(c, "Invalid product id", nil)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, caller(c).ID); err != nil {
		return respondError(c, h.log, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// HandleListProducts lists the seller's products.
func (h *SellerHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListBySeller(c.UserContext(), caller(c).ID)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}
