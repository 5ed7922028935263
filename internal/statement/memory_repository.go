package statement

import (
	"context"
	"sync"
)

// memoryRepository keeps per-user append-only statement logs. A dedicated
// mutex per user serializes the balance-check-then-append sequence for
// withdrawals; different users never contend.
type memoryRepository struct {
	mu    sync.RWMutex
	locks map[string]*sync.Mutex
	logs  map[string][]Statement
}

// NewMemoryRepository builds an in-memory statement store for development
// and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		locks: make(map[string]*sync.Mutex),
		logs:  make(map[string][]Statement),
	}
}

func (r *memoryRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

func (r *memoryRepository) Deposit(_ context.Context, st Statement) error {
	lock := r.userLock(st.UserID)
	lock.Lock()
	defer lock.Unlock()

	r.append(st)
	return nil
}

func (r *memoryRepository) Withdraw(_ context.Context, st Statement) error {
	lock := r.userLock(st.UserID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	balance := BalanceOf(r.logs[st.UserID])
	r.mu.RUnlock()

	if st.Amount.GreaterThan(balance) {
		return ErrInsufficientFunds
	}

	r.append(st)
	return nil
}

func (r *memoryRepository) append(st Statement) {
	r.mu.Lock()
	r.logs[st.UserID] = append(r.logs[st.UserID], st)
	r.mu.Unlock()
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	log := r.logs[userID]
	out := make([]Statement, len(log))
	copy(out, log)
	return out, nil
}

func (r *memoryRepository) FindByIDAndUser(_ context.Context, id, userID string) (Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, st := range r.logs[userID] {
		if st.ID == id {
			return st, nil
		}
	}
	return Statement{}, ErrNotFound
}
