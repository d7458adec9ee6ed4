package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/auth"
	"github.com/blogchain/internal/config"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
	"github.com/blogchain/internal/redisstore"
	"github.com/blogchain/internal/service"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Redis: config.RedisConfig{KeyPrefix: "test", EventChannel: "test:events"},
		Ledger: config.LedgerConfig{
			Backend:            backend,
			PostMinBytes:       10,
			PostMaxBytes:       1000,
			CommentMinBytes:    4,
			CommentMaxBytes:    500,
			ExistentialDeposit: 1,
			Endowments:         "alice:1000,bob:1000",
			EventBuffer:        100,
		},
		Auth: config.AuthConfig{JWTSecret: "bootstrap-secret", Issuer: "blogchain"},
	}
}

func bearer(t *testing.T, cfg *config.Config, account models.AccountID) ledger.Origin {
	t.Helper()
	a, err := auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	require.NoError(t, err)
	token, err := a.Issue(account, time.Minute)
	require.NoError(t, err)
	return ledger.Origin("Bearer " + token)
}

func exerciseBackend(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()

	b, err := service.OpenBackend(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	services, err := service.Bootstrap(ctx, cfg, b, zerolog.Nop())
	require.NoError(t, err)

	alice, bob := bearer(t, cfg, "alice"), bearer(t, cfg, "bob")

	id, err := services.Ledger.PublishPost(ctx, alice, []byte("hello from the bootstrap"))
	require.NoError(t, err)
	require.NoError(t, services.Ledger.PublishComment(ctx, bob, id, []byte("welcome")))
	require.NoError(t, services.Ledger.TipPost(ctx, bob, id, 50))

	err = services.Ledger.TipPost(ctx, alice, id, 50)
	assert.True(t, errors.Is(err, ledger.ErrSelfTip))

	_, err = services.Ledger.PublishPost(ctx, ledger.Origin("Bearer forged"), []byte("hello from nobody"))
	assert.True(t, errors.Is(err, ledger.ErrUnauthenticated))

	aliceBalance, err := services.Accounts.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.Balance(1050), aliceBalance)

	bobBalance, err := services.Accounts.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.Balance(950), bobBalance)

	comments, err := services.Ledger.GetComments(ctx, id)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, models.AccountID("bob"), comments[0].Author)

	events, err := services.Events.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, models.EventPostCreated, events[0].Kind)
	assert.Equal(t, models.EventCommentCreated, events[1].Kind)
	assert.Equal(t, models.EventTipped, events[2].Kind)
}

func TestBootstrap_Memory(t *testing.T) {
	exerciseBackend(t, testConfig(config.BackendMemory))
}

func TestBootstrap_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.BackendRedis)
	cfg.Redis.Addr = mr.Addr()

	exerciseBackend(t, cfg)

	assert.NotEmpty(t, mr.Keys())
}

func TestOpenBackend_RedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cfg := testConfig(config.BackendRedis)
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	_, err = service.OpenBackend(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenBackend_Unknown(t *testing.T) {
	_, err := service.OpenBackend(context.Background(), testConfig("etcd"), zerolog.Nop())
	assert.Error(t, err)
}

func TestEndow_Memory(t *testing.T) {
	ctx := context.Background()
	funds := accounts.NewMemoryLedger(1)

	require.NoError(t, service.Endow(ctx, funds, "alice:1000, carol:20", zerolog.Nop()))

	alice, _ := funds.Balance(ctx, "alice")
	carol, _ := funds.Balance(ctx, "carol")
	assert.Equal(t, models.Balance(1000), alice)
	assert.Equal(t, models.Balance(20), carol)

	assert.Error(t, service.Endow(ctx, funds, "dave", zerolog.Nop()))
}

func TestEndow_DurableLedgerCreditsOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()
	funds := redisstore.NewBalances(client, "test", 1)

	require.NoError(t, service.Endow(ctx, funds, "alice:100", zerolog.Nop()))
	require.NoError(t, funds.Transfer(ctx, "alice", "bob", 100, accounts.AllowDeath))

	require.NoError(t, service.Endow(ctx, funds, "alice:100", zerolog.Nop()))

	alice, _ := funds.Balance(ctx, "alice")
	bob, _ := funds.Balance(ctx, "bob")
	assert.Equal(t, models.Balance(0), alice, "drained account must not be endowed again")
	assert.Equal(t, models.Balance(100), bob)
}

func TestBootstrap_RedisStateSurvivesRestart(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.BackendRedis)
	cfg.Redis.Addr = mr.Addr()
	ctx := context.Background()
	alice, bob := bearer(t, cfg, "alice"), bearer(t, cfg, "bob")

	first, err := service.OpenBackend(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	services, err := service.Bootstrap(ctx, cfg, first, zerolog.Nop())
	require.NoError(t, err)

	id, err := services.Ledger.PublishPost(ctx, alice, []byte("survives a restart"))
	require.NoError(t, err)
	require.NoError(t, services.Ledger.TipPost(ctx, bob, id, 999))
	require.NoError(t, first.Close())

	second, err := service.OpenBackend(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })
	services, err = service.Bootstrap(ctx, cfg, second, zerolog.Nop())
	require.NoError(t, err)

	_, err = services.Ledger.GetPost(ctx, id)
	require.NoError(t, err)

	bobBalance, err := services.Accounts.Balance(ctx, "bob")
	require.NoError(t, err)
	aliceBalance, err := services.Accounts.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.Balance(1), bobBalance)
	assert.Equal(t, models.Balance(1999), aliceBalance)

	err = services.Ledger.TipPost(ctx, bob, id, 1)
	assert.True(t, errors.Is(err, ledger.ErrTransferFailed), "tipper is still at the existential deposit")
}

func TestBootstrap_RejectsMissingSecret(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.Auth.JWTSecret = ""
	b, err := service.OpenBackend(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	_, err = service.Bootstrap(context.Background(), cfg, b, zerolog.Nop())
	assert.Error(t, err)
}
