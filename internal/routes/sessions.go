package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerbook/ledgerbook/internal/auth"
)

// RegisterSessionRoutes wires the authentication endpoint.
func RegisterSessionRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/sessions", rateLimiter, h.CreateSession)
		return
	}
	r.Post("/sessions", h.CreateSession)
}
