package ledger

import (
	"context"
	"sync"

	"github.com/blogchain/internal/models"
)

// MemoryStore is an in-process Store. Reads return copies so callers cannot
// mutate committed state.
type MemoryStore struct {
	mu       sync.RWMutex
	posts    map[models.Hash]models.Post
	comments map[models.Hash][]models.Comment
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[models.Hash]models.Post),
		comments: make(map[models.Hash][]models.Comment),
	}
}

// Post retrieves a post by identifier
func (s *MemoryStore) Post(ctx context.Context, id models.Hash) (models.Post, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return models.Post{}, false, nil
	}
	return clonePost(p), true, nil
}

// Comments retrieves the comment sequence of a post
func (s *MemoryStore) Comments(ctx context.Context, id models.Hash) ([]models.Comment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.comments[id]
	if !ok {
		return nil, false, nil
	}
	out := make([]models.Comment, len(seq))
	for i, c := range seq {
		out[i] = cloneComment(c)
	}
	return out, true, nil
}

// Commit applies a batch atomically
func (s *MemoryStore) Commit(ctx context.Context, b *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := CheckSequences(b, func(id models.Hash) (bool, error) {
		_, ok := s.comments[id]
		return ok, nil
	})
	if err != nil {
		return err
	}

	for _, op := range b.Ops() {
		switch op.Kind {
		case OpPutPost:
			s.posts[op.ID] = clonePost(op.Post)
		case OpResetComments:
			s.comments[op.ID] = []models.Comment{}
		case OpAppendComment:
			s.comments[op.ID] = append(s.comments[op.ID], cloneComment(op.Comment))
		}
	}
	return nil
}

// Len returns the number of stored posts and comment sequences
func (s *MemoryStore) Len() (posts, sequences int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), len(s.comments)
}

func clonePost(p models.Post) models.Post {
	p.Content = append([]byte(nil), p.Content...)
	return p
}

func cloneComment(c models.Comment) models.Comment {
	c.Content = append([]byte(nil), c.Content...)
	return c
}
