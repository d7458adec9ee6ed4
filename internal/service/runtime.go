package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// Runtime applies ledger operations one at a time so that every state
// transition observes the result of the previous one
type Runtime struct {
	ledger *ledger.Ledger
	log    zerolog.Logger
	mu     sync.Mutex
}

// Verify interface compliance
var _ LedgerService = (*Runtime)(nil)

// NewRuntime creates a serializing runtime over l
func NewRuntime(l *ledger.Ledger, log zerolog.Logger) *Runtime {
	return &Runtime{
		ledger: l,
		log:    log.With().Str("service", "runtime").Logger(),
	}
}

// PublishPost applies a publish_post operation
func (r *Runtime) PublishPost(ctx context.Context, origin ledger.Origin, content []byte) (models.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.ledger.PublishPost(ctx, origin, content)
	r.outcome("publish_post", err).
		Int("bytes", len(content)).
		Str("post_id", id.String()).
		Msg(outcomeMessage(err))
	return id, err
}

// PublishComment applies a publish_comment operation
func (r *Runtime) PublishComment(ctx context.Context, origin ledger.Origin, postID models.Hash, content []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.ledger.PublishComment(ctx, origin, postID, content)
	r.outcome("publish_comment", err).
		Int("bytes", len(content)).
		Str("post_id", postID.String()).
		Msg(outcomeMessage(err))
	return err
}

// TipPost applies a tip_post operation
func (r *Runtime) TipPost(ctx context.Context, origin ledger.Origin, postID models.Hash, amount models.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.ledger.TipPost(ctx, origin, postID, amount)
	r.outcome("tip_post", err).
		Uint64("amount", uint64(amount)).
		Str("post_id", postID.String()).
		Msg(outcomeMessage(err))
	return err
}

// GetPost retrieves a post by identifier
func (r *Runtime) GetPost(ctx context.Context, id models.Hash) (*models.PostView, error) {
	post, found, err := r.ledger.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ledger.ErrPostNotFound
	}
	view := models.NewPostView(id, post)
	return &view, nil
}

// GetComments retrieves the comment sequence of a post
func (r *Runtime) GetComments(ctx context.Context, id models.Hash) ([]models.CommentView, error) {
	comments, found, err := r.ledger.Comments(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ledger.ErrPostNotFound
	}
	return models.NewCommentViews(comments), nil
}

// outcome picks the log level for an operation result: rejected operations
// are warnings, infrastructure failures are errors
func (r *Runtime) outcome(op string, err error) *zerolog.Event {
	var event *zerolog.Event
	switch {
	case err == nil:
		event = r.log.Info()
	case IsRejection(err):
		event = r.log.Warn().Err(err)
	default:
		event = r.log.Error().Err(err)
	}
	return event.Str("op", op)
}

func outcomeMessage(err error) string {
	if err == nil {
		return "Operation applied"
	}
	return "Operation rejected"
}

// IsRejection reports whether err is a ledger rule violation rather than an
// infrastructure failure
func IsRejection(err error) bool {
	return errors.Is(err, ledger.ErrContentTooShort) ||
		errors.Is(err, ledger.ErrContentTooLong) ||
		errors.Is(err, ledger.ErrPostNotFound) ||
		errors.Is(err, ledger.ErrSelfTip) ||
		errors.Is(err, ledger.ErrTransferFailed) ||
		errors.Is(err, ledger.ErrUnauthenticated)
}
