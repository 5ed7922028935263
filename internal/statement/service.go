package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/money"
	"github.com/ledgerbook/ledgerbook/internal/notification"
	"github.com/ledgerbook/ledgerbook/internal/user"
)

// Service enforces the ledger rules: statements are validated against the
// owning user and, for withdrawals, against the derived balance before they
// are appended.
type Service struct {
	users    user.Repository
	repo     Repository
	notifier notification.Notifier
}

// NewService constructs a statement service.
func NewService(users user.Repository, repo Repository, notifier notification.Notifier) *Service {
	return &Service{users: users, repo: repo, notifier: notifier}
}

// CreateInput captures a deposit or withdrawal request.
type CreateInput struct {
	UserID      string
	Kind        Kind
	Amount      decimal.Decimal
	Description string
}

// Create validates and appends a new statement. Withdrawals fail with
// ErrInsufficientFunds when the amount exceeds the current balance; an
// amount equal to the balance is accepted and leaves the balance at zero.
// Either the statement is fully recorded or the log is untouched.
func (s *Service) Create(ctx context.Context, input CreateInput) (Statement, error) {
	if _, err := ParseKind(string(input.Kind)); err != nil {
		return Statement{}, err
	}
	if err := money.Validate(input.Amount); err != nil {
		return Statement{}, err
	}

	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return Statement{}, err
	}

	st := Statement{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Kind:        input.Kind,
		Amount:      input.Amount,
		Description: input.Description,
		CreatedAt:   time.Now().UTC(),
	}

	switch input.Kind {
	case KindDeposit:
		if err := s.repo.Deposit(ctx, st); err != nil {
			return Statement{}, err
		}
	case KindWithdraw:
		if err := s.repo.Withdraw(ctx, st); err != nil {
			return Statement{}, err
		}
	}

	s.notify(ctx, st)
	return st, nil
}

// BalanceSheet pairs a user's statement history with the derived balance.
type BalanceSheet struct {
	Statements []Statement
	Balance    decimal.Decimal
}

// Balance returns the user's statements in creation order together with the
// folded balance.
func (s *Service) Balance(ctx context.Context, userID string) (BalanceSheet, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return BalanceSheet{}, err
	}
	statements, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BalanceSheet{Statements: statements, Balance: BalanceOf(statements)}, nil
}

// Get fetches a single statement scoped to its owner. A statement belonging
// to another user fails with ErrNotFound, same as an unknown id.
func (s *Service) Get(ctx context.Context, userID, statementID string) (Statement, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return Statement{}, err
	}
	return s.repo.FindByIDAndUser(ctx, statementID, userID)
}

func (s *Service) notify(ctx context.Context, st Statement) {
	if s.notifier == nil {
		return
	}
	kind := notification.KindDeposit
	if st.Kind == KindWithdraw {
		kind = notification.KindWithdrawal
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        kind,
		Destination: st.UserID,
		Body:        fmt.Sprintf("%s of %s recorded", st.Kind, money.Format(st.Amount)),
	})
}
