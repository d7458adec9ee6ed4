package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/ledger/storetest"
	"github.com/blogchain/internal/models"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ledger.Store {
		_, client := newClient(t)
		return New(client, "test")
	})
}

func TestStore_KeyLayout(t *testing.T) {
	mr, client := newClient(t)
	s := New(client, "bc")
	ctx := context.Background()
	id := models.Hash{0xab}

	err := s.Commit(ctx, ledger.NewBatch().
		PutPost(id, models.Post{Content: []byte("body"), Author: "alice"}).
		ResetComments(id))
	require.NoError(t, err)

	assert.True(t, mr.Exists("bc:post:"+id.String()))
	assert.True(t, mr.Exists("bc:thread:"+id.String()))
	assert.False(t, mr.Exists("bc:comments:"+id.String()), "empty sequences have no list key")
	assert.Equal(t, "alice", mr.HGet("bc:post:"+id.String(), "author"))
}

func TestStore_CommitSurfacesConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	s := New(client, "bc")
	mr.Close()

	err = s.Commit(context.Background(), ledger.NewBatch().ResetComments(models.Hash{0x01}))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ledger.ErrPostNotFound))
}

func TestPublisher_Deposit(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	sub := client.Subscribe(ctx, "events")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	p := NewPublisher(client, "events", zerolog.Nop())
	p.Deposit(models.Tipped("bob", models.Hash{0x07}))

	select {
	case msg := <-sub.Channel():
		var ev models.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, models.EventTipped, ev.Kind)
		assert.Equal(t, models.AccountID("bob"), ev.Account)
		assert.Equal(t, models.Hash{0x07}, ev.PostID)
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for event")
	}
}
