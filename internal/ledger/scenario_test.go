package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/mocks"
	"github.com/blogchain/internal/models"
)

func TestScenario_PublishCommentTip(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	auth := mocks.NewMockAuthenticator()
	funds := accounts.NewMemoryLedger(1)
	recorder := ledger.NewRecorder(0)

	if err := funds.Endow(ctx, "A", 10); err != nil {
		t.Fatal(err)
	}
	if err := funds.Endow(ctx, "B", 1000); err != nil {
		t.Fatal(err)
	}

	l, err := ledger.New(store, auth, funds, recorder, testBounds)
	if err != nil {
		t.Fatal(err)
	}
	a, b := auth.Sign("A"), auth.Sign("B")

	h, err := l.PublishPost(ctx, a, []byte("this is a valid blog post body"))
	if err != nil {
		t.Fatalf("PublishPost failed: %v", err)
	}

	if err := l.PublishComment(ctx, b, h, []byte("nice post!")); err != nil {
		t.Fatalf("PublishComment failed: %v", err)
	}
	comments, _, _ := l.Comments(ctx, h)
	if len(comments) != 1 {
		t.Fatalf("Expected 1 comment, got %d", len(comments))
	}

	if err := l.TipPost(ctx, b, h, 100); err != nil {
		t.Fatalf("TipPost failed: %v", err)
	}
	if bal, _ := funds.Balance(ctx, "A"); bal != 110 {
		t.Errorf("Expected A to hold 110, got %d", bal)
	}
	if bal, _ := funds.Balance(ctx, "B"); bal != 900 {
		t.Errorf("Expected B to hold 900, got %d", bal)
	}

	if err := l.TipPost(ctx, a, h, 50); !errors.Is(err, ledger.ErrSelfTip) {
		t.Errorf("Expected ErrSelfTip, got %v", err)
	}
	if bal, _ := funds.Balance(ctx, "A"); bal != 110 {
		t.Errorf("Self tip must not move funds, A holds %d", bal)
	}

	want := []models.Event{
		models.PostCreated([]byte("this is a valid blog post body"), "A", h),
		models.CommentCreated([]byte("nice post!"), "B", h),
		models.Tipped("B", h),
	}
	got := recorder.Events(0)
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Account != want[i].Account || got[i].PostID != want[i].PostID {
			t.Errorf("Event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestScenario_EmptyPostRejected(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	auth := mocks.NewMockAuthenticator()

	l, err := ledger.New(store, auth, accounts.NewMemoryLedger(1), nil, testBounds)
	if err != nil {
		t.Fatal(err)
	}

	_, err = l.PublishPost(ctx, auth.Sign("A"), []byte(""))
	if !errors.Is(err, ledger.ErrContentTooShort) {
		t.Fatalf("Expected ErrContentTooShort, got %v", err)
	}
	if posts, _ := store.Len(); posts != 0 {
		t.Errorf("Posts store should be empty, got %d", posts)
	}
}

func TestScenario_TipKeepAliveRejected(t *testing.T) {
	ctx := context.Background()
	auth := mocks.NewMockAuthenticator()
	funds := accounts.NewMemoryLedger(10)
	_ = funds.Endow(ctx, "A", 100)
	_ = funds.Endow(ctx, "B", 100)

	l, _ := ledger.New(ledger.NewMemoryStore(), auth, funds, nil, testBounds)
	h, _ := l.PublishPost(ctx, auth.Sign("A"), []byte("tip me almost everything"))

	err := l.TipPost(ctx, auth.Sign("B"), h, 95)
	if !errors.Is(err, accounts.ErrKeepAlive) {
		t.Fatalf("Expected ErrKeepAlive, got %v", err)
	}
	if bal, _ := funds.Balance(ctx, "B"); bal != 100 {
		t.Errorf("Failed tip must not move funds, B holds %d", bal)
	}
}
