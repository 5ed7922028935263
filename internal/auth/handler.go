package auth

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ledgerbook/ledgerbook/internal/user"
)

// Handler exposes the session endpoint.
type Handler struct {
	service *Service
}

// NewHandler builds an auth HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  user.Profile `json:"user"`
	Token string       `json:"token"`
}

// CreateSession validates credentials and returns a signed token.
func (h *Handler) CreateSession(c *fiber.Ctx) error {
	var req sessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	session, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrIncorrectCredentials) {
			return fiber.NewError(http.StatusUnauthorized, ErrIncorrectCredentials.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(sessionResponse{User: session.User, Token: session.Token})
}
