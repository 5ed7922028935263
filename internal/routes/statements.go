package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ledgerbook/ledgerbook/internal/statement"
)

// RegisterStatementRoutes wires ledger endpoints. The balance route must be
// registered before the parameterized lookup so "balance" is not captured as
// a statement id.
func RegisterStatementRoutes(r fiber.Router, h *statement.Handler) {
	group := r.Group("/statements")
	group.Post("/deposit", h.Deposit)
	group.Post("/withdraw", h.Withdraw)
	group.Get("/balance", h.Balance)
	group.Get("/:statementID", h.Get)
}
