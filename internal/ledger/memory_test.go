package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

func TestMemoryStore_CommitIsAllOrNothing(t *testing.T) {
	s := ledger.NewMemoryStore()
	ctx := context.Background()
	id := models.Hash{0xaa}
	missing := models.Hash{0xbb}

	batch := ledger.NewBatch().
		PutPost(id, models.Post{Content: []byte("body"), Author: "alice"}).
		ResetComments(id).
		AppendComment(missing, models.Comment{Content: []byte("orphan"), PostID: missing, Author: "bob"})

	if err := s.Commit(ctx, batch); !errors.Is(err, ledger.ErrPostNotFound) {
		t.Fatalf("Expected ErrPostNotFound, got %v", err)
	}

	posts, sequences := s.Len()
	if posts != 0 || sequences != 0 {
		t.Errorf("Failed batch must not apply, got %d posts and %d sequences", posts, sequences)
	}
}

func TestMemoryStore_AppendAfterResetInSameBatch(t *testing.T) {
	s := ledger.NewMemoryStore()
	ctx := context.Background()
	id := models.Hash{0x01}

	batch := ledger.NewBatch().
		ResetComments(id).
		AppendComment(id, models.Comment{Content: []byte("first"), PostID: id, Author: "bob"})

	if err := s.Commit(ctx, batch); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	comments, found, _ := s.Comments(ctx, id)
	if !found || len(comments) != 1 {
		t.Errorf("Expected 1 comment, got %d (found=%v)", len(comments), found)
	}
}

func TestMemoryStore_ReadsAreCopies(t *testing.T) {
	s := ledger.NewMemoryStore()
	ctx := context.Background()
	id := models.Hash{0x02}

	_ = s.Commit(ctx, ledger.NewBatch().PutPost(id, models.Post{Content: []byte("original"), Author: "alice"}))

	p, _, _ := s.Post(ctx, id)
	p.Content[0] = 'X'

	again, _, _ := s.Post(ctx, id)
	if string(again.Content) != "original" {
		t.Errorf("Stored content was mutated through a read: %q", again.Content)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := ledger.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Commit(ctx, ledger.NewBatch().ResetComments(models.Hash{0x03}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRecorder_KeepsMostRecent(t *testing.T) {
	r := ledger.NewRecorder(2)
	for i := byte(0); i < 5; i++ {
		r.Deposit(models.Tipped("bob", models.Hash{i}))
	}

	events := r.Events(0)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].PostID != (models.Hash{3}) || events[1].PostID != (models.Hash{4}) {
		t.Errorf("Expected the two newest events, got %+v", events)
	}
	if got := r.Events(1); len(got) != 1 || got[0].PostID != (models.Hash{4}) {
		t.Errorf("Expected newest event with limit 1, got %+v", got)
	}
}
