package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// MockAuthenticator is a mock implementation of ledger.Authenticator
type MockAuthenticator struct {
	Accounts map[ledger.Origin]models.AccountID
	Calls    int
}

// Verify interface compliance
var _ ledger.Authenticator = (*MockAuthenticator)(nil)

func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{Accounts: make(map[ledger.Origin]models.AccountID)}
}

// Sign registers an origin for account and returns it
func (m *MockAuthenticator) Sign(account models.AccountID) ledger.Origin {
	origin := ledger.Origin("origin-" + string(account))
	m.Accounts[origin] = account
	return origin
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, origin ledger.Origin) (models.AccountID, error) {
	m.Calls++
	account, ok := m.Accounts[origin]
	if !ok {
		return "", fmt.Errorf("%w: unknown origin", ledger.ErrUnauthenticated)
	}
	return account, nil
}

// TransferCall records a single Transfer invocation
type TransferCall struct {
	From   models.AccountID
	To     models.AccountID
	Amount models.Balance
	Policy accounts.ExistencePolicy
}

// MockTransferer is a mock implementation of accounts.Transferer
type MockTransferer struct {
	mu           sync.Mutex
	Calls        []TransferCall
	TransferErr  error
	TransferFunc func(ctx context.Context, from, to models.AccountID, amount models.Balance, policy accounts.ExistencePolicy) error
}

// Verify interface compliance
var _ accounts.Transferer = (*MockTransferer)(nil)

func NewMockTransferer() *MockTransferer {
	return &MockTransferer{}
}

func (m *MockTransferer) Transfer(ctx context.Context, from, to models.AccountID, amount models.Balance, policy accounts.ExistencePolicy) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, TransferCall{From: from, To: to, Amount: amount, Policy: policy})
	m.mu.Unlock()

	if m.TransferFunc != nil {
		return m.TransferFunc(ctx, from, to, amount, policy)
	}
	return m.TransferErr
}

// MockStore wraps a MemoryStore and lets tests inject failures
type MockStore struct {
	*ledger.MemoryStore
	CommitErr   error
	PostErr     error
	CommitCalls int
}

// Verify interface compliance
var _ ledger.Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{MemoryStore: ledger.NewMemoryStore()}
}

func (m *MockStore) Post(ctx context.Context, id models.Hash) (models.Post, bool, error) {
	if m.PostErr != nil {
		return models.Post{}, false, m.PostErr
	}
	return m.MemoryStore.Post(ctx, id)
}

func (m *MockStore) Commit(ctx context.Context, b *ledger.Batch) error {
	m.CommitCalls++
	if m.CommitErr != nil {
		return m.CommitErr
	}
	return m.MemoryStore.Commit(ctx, b)
}
