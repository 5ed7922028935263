package statement

import "errors"

var (
	// ErrInsufficientFunds occurs when a withdrawal amount exceeds the
	// current balance. Withdrawing the exact balance is allowed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNotFound indicates the statement id does not exist or does not
	// belong to the requesting user. The two cases are deliberately
	// indistinguishable.
	ErrNotFound = errors.New("statement not found")

	// ErrInvalidKind indicates an operation kind outside deposit/withdraw.
	ErrInvalidKind = errors.New("invalid operation kind")
)
