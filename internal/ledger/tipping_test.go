package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

func TestTipPost_TransfersToAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _ := f.ledger.PublishPost(ctx, f.auth.Sign("alice"), []byte("worth tipping, surely"))

	if err := f.ledger.TipPost(ctx, f.auth.Sign("bob"), id, 100); err != nil {
		t.Fatalf("TipPost failed: %v", err)
	}

	if len(f.funds.Calls) != 1 {
		t.Fatalf("Expected 1 transfer, got %d", len(f.funds.Calls))
	}
	call := f.funds.Calls[0]
	if call.From != "bob" || call.To != "alice" || call.Amount != 100 {
		t.Errorf("Unexpected transfer: %+v", call)
	}
	if call.Policy != accounts.KeepAlive {
		t.Errorf("Expected KeepAlive, got %s", call.Policy)
	}

	events := f.recorder.Events(1)
	if len(events) != 1 || events[0].Kind != models.EventTipped || events[0].Account != "bob" || events[0].PostID != id {
		t.Errorf("Unexpected events: %+v", events)
	}
}

func TestTipPost_SelfTipRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.auth.Sign("alice")
	id, _ := f.ledger.PublishPost(ctx, alice, []byte("no tipping yourself"))

	err := f.ledger.TipPost(ctx, alice, id, 50)
	if !errors.Is(err, ledger.ErrSelfTip) {
		t.Fatalf("Expected ErrSelfTip, got %v", err)
	}
	if len(f.funds.Calls) != 0 {
		t.Errorf("Expected no transfer, got %d", len(f.funds.Calls))
	}
	if f.recorder.Len() != 1 {
		t.Errorf("Expected only the PostCreated event, got %d", f.recorder.Len())
	}
}

func TestTipPost_PostNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.ledger.TipPost(context.Background(), f.auth.Sign("bob"), models.Hash{0x01}, 10)
	if !errors.Is(err, ledger.ErrPostNotFound) {
		t.Fatalf("Expected ErrPostNotFound, got %v", err)
	}
	if len(f.funds.Calls) != 0 {
		t.Error("Expected no transfer")
	}
}

func TestTipPost_TransferErrorPropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, _ := f.ledger.PublishPost(ctx, f.auth.Sign("alice"), []byte("a post for a broke tipper"))
	f.funds.TransferErr = accounts.ErrInsufficientBalance

	err := f.ledger.TipPost(ctx, f.auth.Sign("bob"), id, 1_000_000)
	if !errors.Is(err, ledger.ErrTransferFailed) {
		t.Errorf("Expected ErrTransferFailed, got %v", err)
	}
	if !errors.Is(err, accounts.ErrInsufficientBalance) {
		t.Errorf("Expected the collaborator error to be preserved, got %v", err)
	}
	if f.recorder.Len() != 1 {
		t.Errorf("Expected no Tipped event, got %d events", f.recorder.Len())
	}
}

func TestTipPost_StoreReadError(t *testing.T) {
	f := newFixture(t)
	f.store.PostErr = errors.New("connection reset")

	err := f.ledger.TipPost(context.Background(), f.auth.Sign("bob"), models.Hash{0x02}, 10)
	if err == nil || errors.Is(err, ledger.ErrPostNotFound) {
		t.Fatalf("Expected wrapped read error, got %v", err)
	}
	if len(f.funds.Calls) != 0 {
		t.Error("Expected no transfer")
	}
}

func TestTipPost_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	err := f.ledger.TipPost(context.Background(), "", models.Hash{}, 10)
	if !errors.Is(err, ledger.ErrUnauthenticated) {
		t.Fatalf("Expected ErrUnauthenticated, got %v", err)
	}
}
