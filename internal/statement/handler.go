package statement

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/money"
	"github.com/ledgerbook/ledgerbook/internal/user"
)

// Handler exposes statement HTTP endpoints. All routes expect the JWT
// middleware to have stored the authenticated user id in request locals.
type Handler struct {
	service *Service
}

// NewHandler builds a statement HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type statementResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func toResponse(st Statement) statementResponse {
	return statementResponse{
		ID:          st.ID,
		UserID:      st.UserID,
		Type:        string(st.Kind),
		Amount:      money.Format(st.Amount),
		Description: st.Description,
		CreatedAt:   st.CreatedAt,
	}
}

// Deposit records a credit statement for the authenticated user.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.create(c, KindDeposit)
}

// Withdraw records a debit statement for the authenticated user.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.create(c, KindWithdraw)
}

func (h *Handler) create(c *fiber.Ctx, kind Kind) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	st, err := h.service.Create(c.UserContext(), CreateInput{
		UserID:      uid,
		Kind:        kind,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(st))
}

// Balance returns the statement history plus the derived balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	sheet, err := h.service.Balance(c.UserContext(), uid)
	if err != nil {
		return mapError(err)
	}

	history := make([]statementResponse, 0, len(sheet.Statements))
	for _, st := range sheet.Statements {
		history = append(history, toResponse(st))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"statement": history,
		"balance":   money.Format(sheet.Balance),
	})
}

// Get returns a single statement owned by the authenticated user.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}

	st, err := h.service.Get(c.UserContext(), uid, c.Params("statementID"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(st))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "user not found")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "statement not found")
	case errors.Is(err, ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, ErrInvalidKind), errors.Is(err, money.ErrInvalidAmount):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
