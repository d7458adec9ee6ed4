package ledger

import (
	"context"

	"github.com/blogchain/internal/models"
)

// Store is the keyed state owned by the ledger: posts by identifier and
// comment sequences by post identifier.
//
// Reads return a found flag instead of a nil record. Commit must apply every
// write of a batch or none of them.
type Store interface {
	Post(ctx context.Context, id models.Hash) (models.Post, bool, error)
	Comments(ctx context.Context, id models.Hash) ([]models.Comment, bool, error)
	Commit(ctx context.Context, b *Batch) error
}

// OpKind identifies a staged write.
type OpKind int

const (
	// OpPutPost inserts or overwrites the post at ID.
	OpPutPost OpKind = iota + 1
	// OpResetComments sets the comment sequence at ID to empty, creating it
	// if absent.
	OpResetComments
	// OpAppendComment appends to the existing sequence at ID. Commit fails
	// with ErrPostNotFound when no sequence exists.
	OpAppendComment
)

// Op is a single staged write.
type Op struct {
	Kind    OpKind
	ID      models.Hash
	Post    models.Post
	Comment models.Comment
}

// Batch is a unit of work applied by Store.Commit.
type Batch struct {
	ops []Op
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{}
}

// PutPost stages a post insert
func (b *Batch) PutPost(id models.Hash, p models.Post) *Batch {
	b.ops = append(b.ops, Op{Kind: OpPutPost, ID: id, Post: p})
	return b
}

// ResetComments stages an empty comment sequence at id
func (b *Batch) ResetComments(id models.Hash) *Batch {
	b.ops = append(b.ops, Op{Kind: OpResetComments, ID: id})
	return b
}

// AppendComment stages a comment append
func (b *Batch) AppendComment(id models.Hash, c models.Comment) *Batch {
	b.ops = append(b.ops, Op{Kind: OpAppendComment, ID: id, Comment: c})
	return b
}

// Ops returns the staged writes in order
func (b *Batch) Ops() []Op {
	return b.ops
}

// Len returns the number of staged writes
func (b *Batch) Len() int {
	return len(b.ops)
}

// CheckSequences verifies that every append in the batch targets a sequence
// that either exists already or is created earlier in the same batch.
// exists reports whether a sequence is present in committed state.
func CheckSequences(b *Batch, exists func(models.Hash) (bool, error)) error {
	created := make(map[models.Hash]bool)
	for _, op := range b.ops {
		switch op.Kind {
		case OpResetComments:
			created[op.ID] = true
		case OpAppendComment:
			if created[op.ID] {
				continue
			}
			ok, err := exists(op.ID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrPostNotFound
			}
			created[op.ID] = true
		}
	}
	return nil
}
