package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"

	"github.com/lib/pq"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/database"
	"github.com/blogchain/internal/models"
)

// balanceRepo is the concrete implementation of BalanceRepository
type balanceRepo struct {
	db                 *database.DB
	existentialDeposit models.Balance
}

// NewBalanceRepo creates a new balance repository
func NewBalanceRepo(db *database.DB, existentialDeposit models.Balance) BalanceRepository {
	return &balanceRepo{db: db, existentialDeposit: existentialDeposit}
}

// Balance returns the balance of an account
func (r *balanceRepo) Balance(ctx context.Context, account models.AccountID) (models.Balance, error) {
	var free string
	err := r.db.QueryRowContext(ctx, "SELECT free FROM balances WHERE account_id = $1", string(account)).Scan(&free)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseBalance(free)
}

// Endow credits an account, creating it if needed
func (r *balanceRepo) Endow(ctx context.Context, account models.AccountID, amount models.Balance) error {
	return r.db.InTx(ctx, nil, func(tx *sql.Tx) error {
		held, err := lockBalances(ctx, tx, account)
		if err != nil {
			return err
		}
		current := held[account]
		if current > math.MaxUint64-amount {
			return accounts.ErrOverflow
		}
		next := current + amount
		if next == 0 {
			return nil
		}
		if next < r.existentialDeposit {
			return accounts.ErrExistentialDeposit
		}
		return setBalance(ctx, tx, account, next)
	})
}

// GenesisApplied reports whether genesis endowments were already credited
func (r *balanceRepo) GenesisApplied(ctx context.Context) (bool, error) {
	var applied bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM genesis)").Scan(&applied)
	return applied, err
}

// MarkGenesis records that genesis endowments were credited
func (r *balanceRepo) MarkGenesis(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO genesis DEFAULT VALUES ON CONFLICT (id) DO NOTHING")
	return err
}

// Transfer moves amount between accounts in one transaction
func (r *balanceRepo) Transfer(ctx context.Context, from, to models.AccountID, amount models.Balance, policy accounts.ExistencePolicy) error {
	if from == to {
		return nil
	}
	return r.db.InTx(ctx, nil, func(tx *sql.Tx) error {
		held, err := lockBalances(ctx, tx, from, to)
		if err != nil {
			return err
		}

		out, err := accounts.Plan(held[from], held[to], amount, r.existentialDeposit, policy)
		if err != nil {
			return err
		}
		if err := setBalance(ctx, tx, from, out.From); err != nil {
			return err
		}
		return setBalance(ctx, tx, to, out.To)
	})
}

// lockBalances reads and row-locks the given accounts in key order so
// concurrent transfers cannot deadlock
func lockBalances(ctx context.Context, tx *sql.Tx, ids ...models.AccountID) (map[models.AccountID]models.Balance, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = string(id)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT account_id, free FROM balances WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`,
		pq.Array(keys),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	held := make(map[models.AccountID]models.Balance, len(ids))
	for rows.Next() {
		var id, free string
		if err := rows.Scan(&id, &free); err != nil {
			return nil, err
		}
		v, err := parseBalance(free)
		if err != nil {
			return nil, err
		}
		held[models.AccountID(id)] = v
	}
	return held, rows.Err()
}

func setBalance(ctx context.Context, tx *sql.Tx, account models.AccountID, v models.Balance) error {
	if v == 0 {
		_, err := tx.ExecContext(ctx, "DELETE FROM balances WHERE account_id = $1", string(account))
		return err
	}
	query := `
		INSERT INTO balances (account_id, free)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET free = EXCLUDED.free
	`
	_, err := tx.ExecContext(ctx, query, string(account), strconv.FormatUint(uint64(v), 10))
	return err
}

func parseBalance(s string) (models.Balance, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stored balance %q: %w", s, err)
	}
	return models.Balance(v), nil
}
