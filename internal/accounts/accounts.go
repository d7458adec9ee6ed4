// Package accounts is the account-balance ledger the tipping engine transfers
// through. Accounts exist while their balance is non-zero; the existential
// deposit is the smallest balance an account may hold.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/blogchain/internal/models"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrKeepAlive           = errors.New("transfer would reap the source account")
	ErrExistentialDeposit  = errors.New("balance below existential deposit")
	ErrOverflow            = errors.New("balance overflow")
)

// ExistencePolicy controls whether a transfer may reap its source account
type ExistencePolicy int

const (
	// AllowDeath lets the source drop below the existential deposit; the
	// account is then removed and its dust burned.
	AllowDeath ExistencePolicy = iota
	// KeepAlive fails the transfer instead of reaping the source.
	KeepAlive
)

func (p ExistencePolicy) String() string {
	switch p {
	case AllowDeath:
		return "allow_death"
	case KeepAlive:
		return "keep_alive"
	default:
		return "policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// Transferer moves value between accounts
type Transferer interface {
	Transfer(ctx context.Context, from, to models.AccountID, amount models.Balance, policy ExistencePolicy) error
}

// BalanceReader looks up an account balance. Unknown accounts have zero.
type BalanceReader interface {
	Balance(ctx context.Context, account models.AccountID) (models.Balance, error)
}

// Outcome is the result of planning a transfer
type Outcome struct {
	From   models.Balance
	To     models.Balance
	Reaped bool
}

// Plan computes the balances after moving amount from a source holding from
// to a destination holding to. It is shared by every Transferer so that all
// backends agree on existence rules. A zero amount is a no-op.
func Plan(from, to, amount, existentialDeposit models.Balance, policy ExistencePolicy) (Outcome, error) {
	if amount == 0 {
		return Outcome{From: from, To: to}, nil
	}
	if from < amount {
		return Outcome{}, ErrInsufficientBalance
	}

	out := Outcome{From: from - amount}
	if out.From < existentialDeposit {
		if policy == KeepAlive {
			return Outcome{}, ErrKeepAlive
		}
		out.From = 0
		out.Reaped = true
	}

	if to > math.MaxUint64-amount {
		return Outcome{}, ErrOverflow
	}
	out.To = to + amount
	if to == 0 && out.To < existentialDeposit {
		return Outcome{}, ErrExistentialDeposit
	}
	return out, nil
}

// ParseEndowments parses "account:amount" pairs separated by commas
func ParseEndowments(s string) (map[models.AccountID]models.Balance, error) {
	out := make(map[models.AccountID]models.Balance)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		account, amount, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(account) == "" {
			return nil, fmt.Errorf("invalid endowment %q, want account:amount", pair)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid endowment amount for %s: %w", account, err)
		}
		out[models.AccountID(strings.TrimSpace(account))] = models.Balance(v)
	}
	return out, nil
}
