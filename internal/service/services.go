package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// LedgerService defines the interface for ledger operations and lookups
type LedgerService interface {
	PublishPost(ctx context.Context, origin ledger.Origin, content []byte) (models.Hash, error)
	PublishComment(ctx context.Context, origin ledger.Origin, postID models.Hash, content []byte) error
	TipPost(ctx context.Context, origin ledger.Origin, postID models.Hash, amount models.Balance) error
	GetPost(ctx context.Context, id models.Hash) (*models.PostView, error)
	GetComments(ctx context.Context, id models.Hash) ([]models.CommentView, error)
}

// AccountService defines the interface for balance lookups
type AccountService interface {
	Balance(ctx context.Context, account models.AccountID) (models.Balance, error)
}

// EventService defines the interface for reading emitted events
type EventService interface {
	Recent(ctx context.Context, limit int) ([]models.Event, error)
}

// Services holds all service interfaces
type Services struct {
	Ledger   LedgerService
	Accounts AccountService
	Events   EventService
}

// NewServices creates all services
func NewServices(l *ledger.Ledger, balances accounts.BalanceReader, events EventService, log zerolog.Logger) *Services {
	return &Services{
		Ledger:   NewRuntime(l, log),
		Accounts: balances,
		Events:   events,
	}
}

// RecorderEvents exposes an in-memory recorder as an EventService
type RecorderEvents struct {
	Recorder *ledger.Recorder
}

// Recent returns up to limit of the newest recorded events
func (r RecorderEvents) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	return r.Recorder.Events(limit), nil
}
