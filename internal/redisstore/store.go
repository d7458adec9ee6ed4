// Package redisstore keeps ledger state in Redis.
//
// Key layout, under a configurable prefix:
//
//	<prefix>:post:<id>      hash {content, author}
//	<prefix>:thread:<id>    marker, present iff the comment sequence exists
//	<prefix>:comments:<id>  list of JSON comments in insertion order
//	<prefix>:balances       hash of account to decimal free balance
//	<prefix>:genesis        marker, present once endowments were credited
//
// The thread marker exists because Redis drops empty lists. Commits watch
// the thread markers they depend on and apply every write in one MULTI/EXEC.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// maxCommitAttempts bounds optimistic retries when a watched key changes
const maxCommitAttempts = 5

// ErrCommitConflict is returned when a commit keeps losing WATCH races
var ErrCommitConflict = errors.New("redis commit conflict")

// Store is a ledger.Store backed by Redis
type Store struct {
	client redis.UniversalClient
	prefix string
}

// Verify interface compliance
var _ ledger.Store = (*Store)(nil)

// New creates a Redis-backed store
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "blogchain"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) postKey(id models.Hash) string     { return s.prefix + ":post:" + id.String() }
func (s *Store) threadKey(id models.Hash) string   { return s.prefix + ":thread:" + id.String() }
func (s *Store) commentsKey(id models.Hash) string { return s.prefix + ":comments:" + id.String() }

// Post retrieves a post by identifier
func (s *Store) Post(ctx context.Context, id models.Hash) (models.Post, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.postKey(id)).Result()
	if err != nil {
		return models.Post{}, false, fmt.Errorf("redis get post: %w", err)
	}
	author, ok := fields["author"]
	if !ok {
		return models.Post{}, false, nil
	}
	return models.Post{Content: []byte(fields["content"]), Author: models.AccountID(author)}, true, nil
}

// Comments retrieves the comment sequence of a post
func (s *Store) Comments(ctx context.Context, id models.Hash) ([]models.Comment, bool, error) {
	var exists *redis.IntCmd
	var items *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		exists = pipe.Exists(ctx, s.threadKey(id))
		items = pipe.LRange(ctx, s.commentsKey(id), 0, -1)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("redis get comments: %w", err)
	}
	if exists.Val() == 0 {
		return nil, false, nil
	}

	raw := items.Val()
	comments := make([]models.Comment, 0, len(raw))
	for i, item := range raw {
		var c models.Comment
		if err := json.Unmarshal([]byte(item), &c); err != nil {
			return nil, false, fmt.Errorf("decode comment %d of %s: %w", i, id, err)
		}
		comments = append(comments, c)
	}
	return comments, true, nil
}

// Commit applies a batch in a single MULTI/EXEC
func (s *Store) Commit(ctx context.Context, b *ledger.Batch) error {
	var watched []string
	for _, op := range b.Ops() {
		if op.Kind == ledger.OpAppendComment {
			watched = append(watched, s.threadKey(op.ID))
		}
	}

	apply := func(tx *redis.Tx) error {
		err := ledger.CheckSequences(b, func(id models.Hash) (bool, error) {
			n, err := tx.Exists(ctx, s.threadKey(id)).Result()
			return n == 1, err
		})
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, op := range b.Ops() {
				switch op.Kind {
				case ledger.OpPutPost:
					pipe.HSet(ctx, s.postKey(op.ID), "content", string(op.Post.Content), "author", string(op.Post.Author))
				case ledger.OpResetComments:
					pipe.Del(ctx, s.commentsKey(op.ID))
					pipe.Set(ctx, s.threadKey(op.ID), "1", 0)
				case ledger.OpAppendComment:
					data, err := json.Marshal(op.Comment)
					if err != nil {
						return err
					}
					pipe.RPush(ctx, s.commentsKey(op.ID), data)
				}
			}
			return nil
		})
		return err
	}

	return watchWithRetry(ctx, s.client, apply, watched...)
}

// watchWithRetry runs fn under WATCH on keys, retrying while another client
// modifies a watched key between the read and EXEC
func watchWithRetry(ctx context.Context, client redis.UniversalClient, fn func(*redis.Tx) error, keys ...string) error {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		err := client.Watch(ctx, fn, keys...)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrCommitConflict
}
