package redisstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/models"
)

// Balances is an account ledger kept in a single Redis hash. Transfers read
// both accounts under WATCH and write the planned outcome in one MULTI/EXEC.
type Balances struct {
	client             redis.UniversalClient
	key                string
	genesisKey         string
	existentialDeposit models.Balance
}

// Verify interface compliance
var (
	_ accounts.Transferer    = (*Balances)(nil)
	_ accounts.BalanceReader = (*Balances)(nil)
)

// NewBalances creates a Redis-backed account ledger
func NewBalances(client redis.UniversalClient, prefix string, existentialDeposit models.Balance) *Balances {
	if prefix == "" {
		prefix = "blogchain"
	}
	return &Balances{
		client:             client,
		key:                prefix + ":balances",
		genesisKey:         prefix + ":genesis",
		existentialDeposit: existentialDeposit,
	}
}

// Balance returns the balance of an account
func (b *Balances) Balance(ctx context.Context, account models.AccountID) (models.Balance, error) {
	v, err := readBalance(ctx, b.client, b.key, account)
	if err != nil {
		return 0, fmt.Errorf("redis get balance: %w", err)
	}
	return v, nil
}

// Endow credits an account, creating it if needed
func (b *Balances) Endow(ctx context.Context, account models.AccountID, amount models.Balance) error {
	return watchWithRetry(ctx, b.client, func(tx *redis.Tx) error {
		current, err := readBalance(ctx, tx, b.key, account)
		if err != nil {
			return err
		}
		if current > math.MaxUint64-amount {
			return accounts.ErrOverflow
		}
		next := current + amount
		if next == 0 {
			return nil
		}
		if next < b.existentialDeposit {
			return accounts.ErrExistentialDeposit
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			setBalance(ctx, pipe, b.key, account, next)
			return nil
		})
		return err
	}, b.key)
}

// GenesisApplied reports whether genesis endowments were already credited
func (b *Balances) GenesisApplied(ctx context.Context) (bool, error) {
	n, err := b.client.Exists(ctx, b.genesisKey).Result()
	return n == 1, err
}

// MarkGenesis records that genesis endowments were credited
func (b *Balances) MarkGenesis(ctx context.Context) error {
	return b.client.Set(ctx, b.genesisKey, "1", 0).Err()
}

// Transfer moves amount between accounts atomically
func (b *Balances) Transfer(ctx context.Context, from, to models.AccountID, amount models.Balance, policy accounts.ExistencePolicy) error {
	if from == to {
		return nil
	}
	return watchWithRetry(ctx, b.client, func(tx *redis.Tx) error {
		held, err := tx.HMGet(ctx, b.key, string(from), string(to)).Result()
		if err != nil {
			return err
		}
		fromBalance, err := parseBalance(held[0])
		if err != nil {
			return err
		}
		toBalance, err := parseBalance(held[1])
		if err != nil {
			return err
		}

		out, err := accounts.Plan(fromBalance, toBalance, amount, b.existentialDeposit, policy)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			setBalance(ctx, pipe, b.key, from, out.From)
			setBalance(ctx, pipe, b.key, to, out.To)
			return nil
		})
		return err
	}, b.key)
}

// hashGetter is satisfied by clients and by transactions under WATCH
type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func readBalance(ctx context.Context, c hashGetter, key string, account models.AccountID) (models.Balance, error) {
	raw, err := c.HGet(ctx, key, string(account)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return parseBalance(raw)
}

// setBalance removes reaped accounts instead of storing zero
func setBalance(ctx context.Context, pipe redis.Pipeliner, key string, account models.AccountID, v models.Balance) {
	if v == 0 {
		pipe.HDel(ctx, key, string(account))
		return
	}
	pipe.HSet(ctx, key, string(account), strconv.FormatUint(uint64(v), 10))
}

// parseBalance decodes an HMGET field; a nil field is an absent account
func parseBalance(field interface{}) (models.Balance, error) {
	if field == nil {
		return 0, nil
	}
	s, ok := field.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected balance field type %T", field)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stored balance %q: %w", s, err)
	}
	return models.Balance(v), nil
}
