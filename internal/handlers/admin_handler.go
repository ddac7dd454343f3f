package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"marketplace/internal/models"
	"marketplace/internal/services"
)

// AdminHandler exposes user administration.
type AdminHandler struct {
	service *services.AccountService
	log     zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AccountService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the admin routes under /admin behind guards.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	admin := router.Group("/admin", guards...)
	admin.Post("/user/add", h.HandleAddUser)
	admin.Delete("/user/delete/:userId", h.HandleDeleteUser)
	admin.Get("/users", h.HandleListUsers)
	admin.Put("/edit-user/:userId", h.HandleEditUser)
}

// HandleAddUser creates an account with any role.
func (h *AdminHandler) HandleAddUser(c *fiber.Ctx) error {
	var req models.NewUser
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, err := h.service.AddUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, "Could not add user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User added successfully",
		"user":    user,
	})
}

// HandleDeleteUser removes an account.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, ok := intParam(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user id", nil)
	}
	if err := h.service.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// HandleListUsers lists every non-admin account.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleEditUser applies the non-empty fields of the body to an account.
func (h *AdminHandler) HandleEditUser(c *fiber.Ctx) error {
	id, ok := intParam(c, "userId")
	if !ok {
		return badRequest(c, "Invalid user id", nil)
	}
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, err := h.service.EditUser(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, h.log, "Could not edit user", err)
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}
