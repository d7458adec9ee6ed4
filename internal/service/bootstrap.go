package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/auth"
	"github.com/blogchain/internal/config"
	"github.com/blogchain/internal/database"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
	"github.com/blogchain/internal/redisstore"
	"github.com/blogchain/internal/repository"
)

// Funds is an account ledger that can also be credited at genesis
type Funds interface {
	accounts.Transferer
	accounts.BalanceReader
	Endow(ctx context.Context, account models.AccountID, amount models.Balance) error
}

// Verify interface compliance
var (
	_ Funds           = (*accounts.MemoryLedger)(nil)
	_ Funds           = (*redisstore.Balances)(nil)
	_ GenesisRecorder = (*redisstore.Balances)(nil)
	_ GenesisRecorder = repository.BalanceRepository(nil)
)

// Backend holds the state collaborators selected by configuration
type Backend struct {
	Name   string
	Store  ledger.Store
	Funds  Funds
	Sink   ledger.EventSink
	Events EventService

	closers []func() error
}

// OpenBackend connects the storage backend named by cfg.Ledger.Backend.
// Every backend records events in memory; postgres additionally persists
// them and redis publishes them.
func OpenBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	ed := models.Balance(cfg.Ledger.ExistentialDeposit)
	recorder := ledger.NewRecorder(cfg.Ledger.EventBuffer)

	b := &Backend{Name: cfg.Ledger.Backend}

	switch cfg.Ledger.Backend {
	case config.BackendMemory:
		b.Store = ledger.NewMemoryStore()
		b.Funds = accounts.NewMemoryLedger(ed)
		b.Sink = recorder
		b.Events = RecorderEvents{Recorder: recorder}

	case config.BackendPostgres:
		db, err := database.New(&cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b.closers = append(b.closers, db.Close)

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		repos := repository.New(db, ed)
		b.Store = repos.Post
		b.Funds = repos.Balance
		b.Sink = ledger.MultiSink{recorder, repos.Event}
		b.Events = repos.Event

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		b.closers = append(b.closers, client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		b.Store = redisstore.New(client, cfg.Redis.KeyPrefix)
		b.Funds = redisstore.NewBalances(client, cfg.Redis.KeyPrefix, ed)
		b.Sink = ledger.MultiSink{recorder, redisstore.NewPublisher(client, cfg.Redis.EventChannel, log)}
		b.Events = RecorderEvents{Recorder: recorder}

	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}

	log.Info().Str("backend", b.Name).Msg("Ledger backend ready")
	return b, nil
}

// Close releases backend connections
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// GenesisRecorder is implemented by durable account ledgers that remember
// whether genesis endowments were credited
type GenesisRecorder interface {
	GenesisApplied(ctx context.Context) (bool, error)
	MarkGenesis(ctx context.Context) error
}

// Endow credits the configured genesis endowments. Durable ledgers credit
// them once; later starts find the genesis marker and leave balances alone.
func Endow(ctx context.Context, funds Funds, endowments string, log zerolog.Logger) error {
	grants, err := accounts.ParseEndowments(endowments)
	if err != nil {
		return err
	}
	if len(grants) == 0 {
		return nil
	}

	recorder, durable := funds.(GenesisRecorder)
	if durable {
		applied, err := recorder.GenesisApplied(ctx)
		if err != nil {
			return fmt.Errorf("failed to read genesis marker: %w", err)
		}
		if applied {
			log.Info().Msg("Genesis endowments already applied")
			return nil
		}
	}

	for account, amount := range grants {
		if err := funds.Endow(ctx, account, amount); err != nil {
			return fmt.Errorf("failed to endow %s: %w", account, err)
		}
		log.Info().Str("account", string(account)).Uint64("amount", uint64(amount)).Msg("Account endowed")
	}

	if durable {
		if err := recorder.MarkGenesis(ctx); err != nil {
			return fmt.Errorf("failed to record genesis marker: %w", err)
		}
	}
	return nil
}

// Bootstrap wires the ledger over an opened backend and returns the
// services the API serves
func Bootstrap(ctx context.Context, cfg *config.Config, b *Backend, log zerolog.Logger) (*Services, error) {
	authenticator, err := auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		return nil, err
	}

	if err := Endow(ctx, b.Funds, cfg.Ledger.Endowments, log); err != nil {
		return nil, err
	}

	bounds := ledger.Bounds{
		PostMinBytes:    cfg.Ledger.PostMinBytes,
		PostMaxBytes:    cfg.Ledger.PostMaxBytes,
		CommentMinBytes: cfg.Ledger.CommentMinBytes,
		CommentMaxBytes: cfg.Ledger.CommentMaxBytes,
	}
	l, err := ledger.New(b.Store, authenticator, b.Funds, b.Sink, bounds)
	if err != nil {
		return nil, err
	}

	return NewServices(l, b.Funds, b.Events, log), nil
}
