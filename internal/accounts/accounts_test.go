package accounts

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogchain/internal/models"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name    string
		from    models.Balance
		to      models.Balance
		amount  models.Balance
		ed      models.Balance
		policy  ExistencePolicy
		want    Outcome
		wantErr error
	}{
		{name: "simple", from: 100, to: 50, amount: 30, ed: 10, policy: KeepAlive, want: Outcome{From: 70, To: 80}},
		{name: "zero amount", from: 0, to: 0, amount: 0, ed: 10, policy: KeepAlive, want: Outcome{}},
		{name: "insufficient", from: 20, to: 0, amount: 30, ed: 1, policy: AllowDeath, wantErr: ErrInsufficientBalance},
		{name: "keep alive below ed", from: 100, to: 50, amount: 95, ed: 10, policy: KeepAlive, wantErr: ErrKeepAlive},
		{name: "keep alive drains", from: 100, to: 50, amount: 100, ed: 1, policy: KeepAlive, wantErr: ErrKeepAlive},
		{name: "keep alive exact ed", from: 100, to: 50, amount: 90, ed: 10, policy: KeepAlive, want: Outcome{From: 10, To: 140}},
		{name: "allow death reaps", from: 100, to: 50, amount: 95, ed: 10, policy: AllowDeath, want: Outcome{From: 0, To: 145, Reaped: true}},
		{name: "new destination below ed", from: 100, to: 0, amount: 5, ed: 10, policy: KeepAlive, wantErr: ErrExistentialDeposit},
		{name: "new destination at ed", from: 100, to: 0, amount: 10, ed: 10, policy: KeepAlive, want: Outcome{From: 90, To: 10}},
		{name: "overflow", from: 100, to: math.MaxUint64 - 5, amount: 10, ed: 1, policy: KeepAlive, wantErr: ErrOverflow},
		{name: "zero ed drains", from: 10, to: 0, amount: 10, ed: 0, policy: KeepAlive, want: Outcome{From: 0, To: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.from, tt.to, tt.amount, tt.ed, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryLedger_Transfer(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(10)
	require.NoError(t, l.Endow(ctx, "alice", 100))

	require.NoError(t, l.Transfer(ctx, "alice", "bob", 40, KeepAlive))

	alice, _ := l.Balance(ctx, "alice")
	bob, _ := l.Balance(ctx, "bob")
	assert.Equal(t, models.Balance(60), alice)
	assert.Equal(t, models.Balance(40), bob)
}

func TestMemoryLedger_FailedTransferLeavesBalances(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(10)
	require.NoError(t, l.Endow(ctx, "alice", 100))
	require.NoError(t, l.Endow(ctx, "bob", 20))

	err := l.Transfer(ctx, "alice", "bob", 95, KeepAlive)
	assert.ErrorIs(t, err, ErrKeepAlive)

	alice, _ := l.Balance(ctx, "alice")
	bob, _ := l.Balance(ctx, "bob")
	assert.Equal(t, models.Balance(100), alice)
	assert.Equal(t, models.Balance(20), bob)
}

func TestMemoryLedger_AllowDeathReaps(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(10)
	require.NoError(t, l.Endow(ctx, "alice", 100))

	require.NoError(t, l.Transfer(ctx, "alice", "bob", 95, AllowDeath))

	alice, _ := l.Balance(ctx, "alice")
	bob, _ := l.Balance(ctx, "bob")
	assert.Zero(t, alice)
	assert.Equal(t, models.Balance(95), bob)
}

func TestMemoryLedger_EndowBelowExistentialDeposit(t *testing.T) {
	l := NewMemoryLedger(10)
	assert.ErrorIs(t, l.Endow(context.Background(), "dust", 3), ErrExistentialDeposit)
}

func TestParseEndowments(t *testing.T) {
	got, err := ParseEndowments(" alice:100, bob:5 ,,")
	require.NoError(t, err)
	assert.Equal(t, map[models.AccountID]models.Balance{"alice": 100, "bob": 5}, got)

	_, err = ParseEndowments("alice")
	assert.Error(t, err)

	_, err = ParseEndowments("alice:-1")
	assert.Error(t, err)
}

func TestExistencePolicy_String(t *testing.T) {
	assert.Equal(t, "keep_alive", KeepAlive.String())
	assert.Equal(t, "allow_death", AllowDeath.String())
}
