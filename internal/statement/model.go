package statement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the two statement operations.
type Kind string

const (
	// KindDeposit credits the user's balance.
	KindDeposit Kind = "deposit"
	// KindWithdraw debits the user's balance, subject to the overdraft check.
	KindWithdraw Kind = "withdraw"
)

// ParseKind validates a raw operation kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDeposit, KindWithdraw:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Statement is a single immutable ledger entry. Statements are never updated
// or deleted once appended.
type Statement struct {
	ID          string
	UserID      string
	Kind        Kind
	Amount      decimal.Decimal
	Description string
	CreatedAt   time.Time
}
