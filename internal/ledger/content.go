package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogchain/internal/models"
)

// PublishPost stores a new post and an empty comment sequence under the
// post's content-derived identifier.
//
// Republishing identical content from the same author yields the same
// identifier; the record is overwritten and its comment sequence reset.
func (l *Ledger) PublishPost(ctx context.Context, origin Origin, content []byte) (models.Hash, error) {
	author, err := l.signer(ctx, origin)
	if err != nil {
		return models.Hash{}, err
	}
	if err := checkLength(EntityPost, content, l.bounds.PostMinBytes, l.bounds.PostMaxBytes); err != nil {
		return models.Hash{}, err
	}

	post := models.Post{Content: append([]byte(nil), content...), Author: author}
	id := PostID(post)

	batch := NewBatch().PutPost(id, post).ResetComments(id)
	if err := l.store.Commit(ctx, batch); err != nil {
		return models.Hash{}, fmt.Errorf("commit post %s: %w", id, err)
	}

	l.events.Deposit(models.PostCreated(post.Content, author, id))
	return id, nil
}

// PublishComment appends a comment to an existing post's sequence
func (l *Ledger) PublishComment(ctx context.Context, origin Origin, postID models.Hash, content []byte) error {
	author, err := l.signer(ctx, origin)
	if err != nil {
		return err
	}
	if err := checkLength(EntityComment, content, l.bounds.CommentMinBytes, l.bounds.CommentMaxBytes); err != nil {
		return err
	}

	comment := models.Comment{
		Content: append([]byte(nil), content...),
		PostID:  postID,
		Author:  author,
	}

	if err := l.store.Commit(ctx, NewBatch().AppendComment(postID, comment)); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("commit comment on %s: %w", postID, err)
	}

	l.events.Deposit(models.CommentCreated(comment.Content, author, postID))
	return nil
}
