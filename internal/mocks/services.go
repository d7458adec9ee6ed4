package mocks

import (
	"context"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
	"github.com/blogchain/internal/service"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	PublishPostFunc    func(ctx context.Context, origin ledger.Origin, content []byte) (models.Hash, error)
	PublishCommentFunc func(ctx context.Context, origin ledger.Origin, postID models.Hash, content []byte) error
	TipPostFunc        func(ctx context.Context, origin ledger.Origin, postID models.Hash, amount models.Balance) error
	Posts              map[models.Hash]*models.PostView
	Comments           map[models.Hash][]models.CommentView
	Origins            []ledger.Origin
}

// Verify interface compliance
var _ service.LedgerService = (*MockLedgerService)(nil)

func NewMockLedgerService() *MockLedgerService {
	return &MockLedgerService{
		Posts:    make(map[models.Hash]*models.PostView),
		Comments: make(map[models.Hash][]models.CommentView),
	}
}

func (m *MockLedgerService) PublishPost(ctx context.Context, origin ledger.Origin, content []byte) (models.Hash, error) {
	m.Origins = append(m.Origins, origin)
	if m.PublishPostFunc != nil {
		return m.PublishPostFunc(ctx, origin, content)
	}
	return models.Hash{0x01}, nil
}

func (m *MockLedgerService) PublishComment(ctx context.Context, origin ledger.Origin, postID models.Hash, content []byte) error {
	m.Origins = append(m.Origins, origin)
	if m.PublishCommentFunc != nil {
		return m.PublishCommentFunc(ctx, origin, postID, content)
	}
	return nil
}

func (m *MockLedgerService) TipPost(ctx context.Context, origin ledger.Origin, postID models.Hash, amount models.Balance) error {
	m.Origins = append(m.Origins, origin)
	if m.TipPostFunc != nil {
		return m.TipPostFunc(ctx, origin, postID, amount)
	}
	return nil
}

func (m *MockLedgerService) GetPost(ctx context.Context, id models.Hash) (*models.PostView, error) {
	post, ok := m.Posts[id]
	if !ok {
		return nil, ledger.ErrPostNotFound
	}
	return post, nil
}

func (m *MockLedgerService) GetComments(ctx context.Context, id models.Hash) ([]models.CommentView, error) {
	comments, ok := m.Comments[id]
	if !ok {
		return nil, ledger.ErrPostNotFound
	}
	return comments, nil
}

// MockAccountService is a mock implementation of AccountService
type MockAccountService struct {
	Balances   map[models.AccountID]models.Balance
	BalanceErr error
}

// Verify interface compliance
var _ service.AccountService = (*MockAccountService)(nil)

func NewMockAccountService() *MockAccountService {
	return &MockAccountService{Balances: make(map[models.AccountID]models.Balance)}
}

func (m *MockAccountService) Balance(ctx context.Context, account models.AccountID) (models.Balance, error) {
	if m.BalanceErr != nil {
		return 0, m.BalanceErr
	}
	return m.Balances[account], nil
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	Events    []models.Event
	LastLimit int
}

// Verify interface compliance
var _ service.EventService = (*MockEventService)(nil)

func NewMockEventService() *MockEventService {
	return &MockEventService{}
}

func (m *MockEventService) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	m.LastLimit = limit
	if len(m.Events) > limit {
		return m.Events[len(m.Events)-limit:], nil
	}
	return m.Events, nil
}
