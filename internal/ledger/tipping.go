package ledger

import (
	"context"
	"fmt"

	"github.com/blogchain/internal/accounts"
	"github.com/blogchain/internal/models"
)

// TipPost transfers amount from the signer to the post's author. The store
// is only read; the transfer is the single mutation and runs with KeepAlive.
func (l *Ledger) TipPost(ctx context.Context, origin Origin, postID models.Hash, amount models.Balance) error {
	tipper, err := l.signer(ctx, origin)
	if err != nil {
		return err
	}

	post, found, err := l.store.Post(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post %s: %w", postID, err)
	}
	if !found {
		return ErrPostNotFound
	}
	if tipper == post.Author {
		return ErrSelfTip
	}

	if err := l.funds.Transfer(ctx, tipper, post.Author, amount, accounts.KeepAlive); err != nil {
		return &TransferError{Err: err}
	}

	l.events.Deposit(models.Tipped(tipper, postID))
	return nil
}
