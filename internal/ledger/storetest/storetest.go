// Package storetest holds conformance checks shared by every ledger.Store
// implementation.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// Run exercises a store created fresh for each subtest by newStore.
func Run(t *testing.T, newStore func(t *testing.T) ledger.Store) {
	t.Run("MissingPost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, found, err := s.Post(ctx, models.Hash{0x01})
		if err != nil {
			t.Fatalf("Post failed: %v", err)
		}
		if found {
			t.Error("Expected post to be absent")
		}
		_, found, err = s.Comments(ctx, models.Hash{0x01})
		if err != nil {
			t.Fatalf("Comments failed: %v", err)
		}
		if found {
			t.Error("Expected sequence to be absent")
		}
	})

	t.Run("PutPostWithEmptySequence", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		post := models.Post{Content: []byte("binary \x00\xff content"), Author: "alice"}
		id := ledger.PostID(post)

		if err := s.Commit(ctx, ledger.NewBatch().PutPost(id, post).ResetComments(id)); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		got, found, err := s.Post(ctx, id)
		if err != nil || !found {
			t.Fatalf("Expected post, found=%v err=%v", found, err)
		}
		if !bytes.Equal(got.Content, post.Content) || got.Author != post.Author {
			t.Errorf("Expected %+v, got %+v", post, got)
		}

		comments, found, err := s.Comments(ctx, id)
		if err != nil || !found {
			t.Fatalf("Expected empty sequence, found=%v err=%v", found, err)
		}
		if len(comments) != 0 {
			t.Errorf("Expected 0 comments, got %d", len(comments))
		}
	})

	t.Run("AppendPreservesOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := models.Hash{0x02}

		if err := s.Commit(ctx, ledger.NewBatch().ResetComments(id)); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		for i := 0; i < 10; i++ {
			c := models.Comment{Content: []byte(fmt.Sprintf("comment-%d", i)), PostID: id, Author: "bob"}
			if err := s.Commit(ctx, ledger.NewBatch().AppendComment(id, c)); err != nil {
				t.Fatalf("Append %d failed: %v", i, err)
			}
		}

		comments, _, err := s.Comments(ctx, id)
		if err != nil {
			t.Fatalf("Comments failed: %v", err)
		}
		if len(comments) != 10 {
			t.Fatalf("Expected 10 comments, got %d", len(comments))
		}
		for i, c := range comments {
			if want := fmt.Sprintf("comment-%d", i); string(c.Content) != want {
				t.Errorf("Comment %d: expected %q, got %q", i, want, c.Content)
			}
			if c.PostID != id || c.Author != "bob" {
				t.Errorf("Comment %d: unexpected fields %+v", i, c)
			}
		}
	})

	t.Run("AppendWithoutSequenceFails", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := models.Hash{0x03}
		other := models.Hash{0x04}

		batch := ledger.NewBatch().
			PutPost(other, models.Post{Content: []byte("staged"), Author: "alice"}).
			AppendComment(id, models.Comment{Content: []byte("orphan"), PostID: id, Author: "bob"})

		err := s.Commit(ctx, batch)
		if !errors.Is(err, ledger.ErrPostNotFound) {
			t.Fatalf("Expected ErrPostNotFound, got %v", err)
		}
		if _, found, _ := s.Post(ctx, other); found {
			t.Error("Failed batch must not apply earlier writes")
		}
		if _, found, _ := s.Comments(ctx, id); found {
			t.Error("Failed batch must not create a sequence")
		}
	})

	t.Run("ResetClearsSequence", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := models.Hash{0x05}
		c := models.Comment{Content: []byte("soon gone"), PostID: id, Author: "bob"}

		if err := s.Commit(ctx, ledger.NewBatch().ResetComments(id).AppendComment(id, c)); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if err := s.Commit(ctx, ledger.NewBatch().ResetComments(id)); err != nil {
			t.Fatalf("Reset failed: %v", err)
		}

		comments, found, _ := s.Comments(ctx, id)
		if !found || len(comments) != 0 {
			t.Errorf("Expected empty sequence, got %d (found=%v)", len(comments), found)
		}
	})

	t.Run("PutPostOverwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := models.Hash{0x06}

		_ = s.Commit(ctx, ledger.NewBatch().PutPost(id, models.Post{Content: []byte("old"), Author: "alice"}))
		if err := s.Commit(ctx, ledger.NewBatch().PutPost(id, models.Post{Content: []byte("new"), Author: "carol"})); err != nil {
			t.Fatalf("Overwrite failed: %v", err)
		}

		got, _, _ := s.Post(ctx, id)
		if string(got.Content) != "new" || got.Author != "carol" {
			t.Errorf("Expected overwritten record, got %+v", got)
		}
	})
}
