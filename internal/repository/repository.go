package repository

import (
	"context"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/database"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// PostRepository is the PostgreSQL ledger state
type PostRepository interface {
	ledger.Store
	Count(ctx context.Context) (int, error)
}

// BalanceRepository is the PostgreSQL account ledger
type BalanceRepository interface {
	accounts.Transferer
	accounts.BalanceReader
	Endow(ctx context.Context, account models.AccountID, amount models.Balance) error
	GenesisApplied(ctx context.Context) (bool, error)
	MarkGenesis(ctx context.Context) error
}

// EventRepository persists emitted ledger events
type EventRepository interface {
	ledger.EventSink
	Recent(ctx context.Context, limit int) ([]models.Event, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Post    PostRepository
	Balance BalanceRepository
	Event   EventRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB, existentialDeposit models.Balance) *Repositories {
	return &Repositories{
		Post:    NewPostRepo(db),
		Balance: NewBalanceRepo(db, existentialDeposit),
		Event:   NewEventRepo(db),
	}
}
