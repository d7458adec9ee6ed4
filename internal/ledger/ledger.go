package ledger

import (
	"context"
	"fmt"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/models"
)

// Origin is the opaque credential presented with an operation
type Origin string

// Authenticator verifies an origin and returns the signing account. It
// returns an error matching ErrUnauthenticated when verification fails.
type Authenticator interface {
	Authenticate(ctx context.Context, origin Origin) (models.AccountID, error)
}

// Bounds holds the exclusive content length limits
type Bounds struct {
	PostMinBytes    uint32
	PostMaxBytes    uint32
	CommentMinBytes uint32
	CommentMaxBytes uint32
}

// Validate checks that each pair leaves room for at least one length
func (b Bounds) Validate() error {
	if uint64(b.PostMaxBytes) <= uint64(b.PostMinBytes)+1 {
		return fmt.Errorf("post bounds (%d, %d) admit no content length", b.PostMinBytes, b.PostMaxBytes)
	}
	if uint64(b.CommentMaxBytes) <= uint64(b.CommentMinBytes)+1 {
		return fmt.Errorf("comment bounds (%d, %d) admit no content length", b.CommentMinBytes, b.CommentMaxBytes)
	}
	return nil
}

// Ledger applies blog operations against a Store
type Ledger struct {
	store  Store
	auth   Authenticator
	funds  accounts.Transferer
	events EventSink
	bounds Bounds
}

// New creates a ledger. A nil sink discards events.
func New(store Store, auth Authenticator, funds accounts.Transferer, events EventSink, bounds Bounds) (*Ledger, error) {
	if store == nil || auth == nil || funds == nil {
		return nil, fmt.Errorf("ledger: store, authenticator and transferer are required")
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if events == nil {
		events = EventSinkFunc(func(models.Event) {})
	}
	return &Ledger{store: store, auth: auth, funds: funds, events: events, bounds: bounds}, nil
}

// Post looks up a post by identifier
func (l *Ledger) Post(ctx context.Context, id models.Hash) (models.Post, bool, error) {
	return l.store.Post(ctx, id)
}

// Comments looks up the comment sequence of a post
func (l *Ledger) Comments(ctx context.Context, id models.Hash) ([]models.Comment, bool, error) {
	return l.store.Comments(ctx, id)
}

func (l *Ledger) signer(ctx context.Context, origin Origin) (models.AccountID, error) {
	who, err := l.auth.Authenticate(ctx, origin)
	if err != nil {
		return "", err
	}
	if who == "" {
		return "", ErrUnauthenticated
	}
	return who, nil
}

func checkLength(entity Entity, content []byte, min, max uint32) error {
	n := len(content)
	if uint64(n) <= uint64(min) {
		return &ContentError{Kind: ErrContentTooShort, Entity: entity, Len: n, Min: min, Max: max}
	}
	if uint64(n) >= uint64(max) {
		return &ContentError{Kind: ErrContentTooLong, Entity: entity, Len: n, Min: min, Max: max}
	}
	return nil
}
