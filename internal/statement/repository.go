package statement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerbook/ledgerbook/internal/money"
)

// Repository is the append-only statement store. Withdraw re-validates the
// balance inside the same critical section as the append, so the overdraft
// check and the write are one atomic step per user.
type Repository interface {
	Deposit(ctx context.Context, st Statement) error
	Withdraw(ctx context.Context, st Statement) error
	ListByUser(ctx context.Context, userID string) ([]Statement, error)
	FindByIDAndUser(ctx context.Context, id, userID string) (Statement, error)
}

// PostgresRepository persists statements in PostgreSQL. Per-user
// serialization of withdrawals comes from a row lock on the owning user.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a Postgres-backed statement repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Deposit appends a credit entry. Deposits never fail the balance check.
func (r *PostgresRepository) Deposit(ctx context.Context, st Statement) error {
	return r.insert(ctx, r.db, st)
}

// Withdraw appends a debit entry after re-validating the balance in the same
// transaction. The FOR UPDATE lock on the user row serializes concurrent
// withdrawals for one user without blocking other users.
func (r *PostgresRepository) Withdraw(ctx context.Context, st Statement) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	userID, err := uuid.Parse(st.UserID)
	if err != nil {
		return err
	}

	var lockedID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&lockedID); err != nil {
		return err
	}

	balance, err := balanceForUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	if st.Amount.GreaterThan(balance) {
		return ErrInsufficientFunds
	}

	if err := r.insert(ctx, tx, st); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListByUser returns the user's statements in creation order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Statement, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, kind, amount::text, description, created_at
        FROM statements WHERE user_id = $1 ORDER BY created_at, id`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []Statement
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	return statements, rows.Err()
}

// FindByIDAndUser fetches one statement filtering by id and owner in a
// single query, so a foreign statement id behaves exactly like a missing one.
func (r *PostgresRepository) FindByIDAndUser(ctx context.Context, id, userID string) (Statement, error) {
	stID, err := uuid.Parse(id)
	if err != nil {
		return Statement{}, ErrNotFound
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Statement{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, kind, amount::text, description, created_at
        FROM statements WHERE id = $1 AND user_id = $2`, stID, uid)
	st, err := scanStatement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Statement{}, ErrNotFound
	}
	return st, err
}

// execer matches both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PostgresRepository) insert(ctx context.Context, db execer, st Statement) error {
	stID, err := uuid.Parse(st.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(st.UserID)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `INSERT INTO statements (id, user_id, kind, amount, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`, stID, userID, string(st.Kind), money.Format(st.Amount), st.Description, st.CreatedAt.UTC())
	return err
}

func balanceForUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (decimal.Decimal, error) {
	const query = `
        SELECT COALESCE(SUM(CASE WHEN kind = 'deposit' THEN amount ELSE -amount END), 0)::text
        FROM statements WHERE user_id = $1`
	var raw string
	if err := tx.QueryRow(ctx, query, userID).Scan(&raw); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw)
}

func scanStatement(row pgx.Row) (Statement, error) {
	var (
		id        uuid.UUID
		userID    uuid.UUID
		kind      string
		rawAmount string
		createdAt time.Time
		st        Statement
	)
	if err := row.Scan(&id, &userID, &kind, &rawAmount, &st.Description, &createdAt); err != nil {
		return Statement{}, err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return Statement{}, err
	}
	st.ID = id.String()
	st.UserID = userID.String()
	st.Kind = Kind(kind)
	st.Amount = amount
	st.CreatedAt = createdAt.UTC()
	return st, nil
}
