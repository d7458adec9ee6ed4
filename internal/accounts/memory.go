package accounts

import (
	"context"
	"math"
	"sync"

	"github.com/blogchain/internal/models"
)

// MemoryLedger keeps balances in process memory
type MemoryLedger struct {
	mu                 sync.Mutex
	balances           map[models.AccountID]models.Balance
	existentialDeposit models.Balance
}

// NewMemoryLedger creates an empty ledger with the given existential deposit
func NewMemoryLedger(existentialDeposit models.Balance) *MemoryLedger {
	return &MemoryLedger{
		balances:           make(map[models.AccountID]models.Balance),
		existentialDeposit: existentialDeposit,
	}
}

// Endow credits an account, creating it if needed
func (l *MemoryLedger) Endow(ctx context.Context, account models.AccountID, amount models.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.balances[account]
	if current > math.MaxUint64-amount {
		return ErrOverflow
	}
	next := current + amount
	if next == 0 {
		return nil
	}
	if next < l.existentialDeposit {
		return ErrExistentialDeposit
	}
	l.balances[account] = next
	return nil
}

// Balance returns the balance of an account
func (l *MemoryLedger) Balance(ctx context.Context, account models.AccountID) (models.Balance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// Transfer moves amount from one account to another
func (l *MemoryLedger) Transfer(ctx context.Context, from, to models.AccountID, amount models.Balance, policy ExistencePolicy) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out, err := Plan(l.balances[from], l.balances[to], amount, l.existentialDeposit, policy)
	if err != nil {
		return err
	}
	if out.From == 0 {
		delete(l.balances, from)
	} else {
		l.balances[from] = out.From
	}
	if out.To != 0 {
		l.balances[to] = out.To
	}
	return nil
}
