package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerbook/ledgerbook/internal/user"
)

// RegisterUserRoutes wires the public signup endpoint.
func RegisterUserRoutes(r fiber.Router, h *user.Handler) {
	r.Post("/users", h.Register)
}
