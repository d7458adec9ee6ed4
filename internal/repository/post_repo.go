package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/blogchain/internal/database"
	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// Post retrieves a post by identifier
func (r *postRepo) Post(ctx context.Context, id models.Hash) (models.Post, bool, error) {
	query := `SELECT author, content FROM posts WHERE id = $1`

	var post models.Post
	var author string
	err := r.db.QueryRowContext(ctx, query, id[:]).Scan(&author, &post.Content)
	if err == sql.ErrNoRows {
		return models.Post{}, false, nil
	}
	if err != nil {
		return models.Post{}, false, err
	}
	post.Author = models.AccountID(author)
	return post, true, nil
}

// Comments retrieves the comment sequence of a post in insertion order
func (r *postRepo) Comments(ctx context.Context, id models.Hash) ([]models.Comment, bool, error) {
	var comments []models.Comment
	found := false

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := r.db.InTx(ctx, opts, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM comment_threads WHERE post_id = $1)", id[:],
		).Scan(&found)
		if err != nil || !found {
			return err
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT author, content FROM comments WHERE post_id = $1 ORDER BY seq`, id[:])
		if err != nil {
			return err
		}
		defer rows.Close()

		comments = make([]models.Comment, 0)
		for rows.Next() {
			c := models.Comment{PostID: id}
			var author string
			if err := rows.Scan(&author, &c.Content); err != nil {
				return err
			}
			c.Author = models.AccountID(author)
			comments = append(comments, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	return comments, true, nil
}

// Commit applies a batch in a single transaction
func (r *postRepo) Commit(ctx context.Context, b *ledger.Batch) error {
	return r.db.InTx(ctx, nil, func(tx *sql.Tx) error {
		for _, op := range b.Ops() {
			var err error
			switch op.Kind {
			case ledger.OpPutPost:
				err = putPost(ctx, tx, op.ID, op.Post)
			case ledger.OpResetComments:
				err = resetComments(ctx, tx, op.ID)
			case ledger.OpAppendComment:
				err = appendComment(ctx, tx, op.ID, op.Comment)
			default:
				err = fmt.Errorf("unknown batch op %d", op.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the total number of posts
func (r *postRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

func putPost(ctx context.Context, tx *sql.Tx, id models.Hash, post models.Post) error {
	query := `
		INSERT INTO posts (id, author, content)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET author = EXCLUDED.author, content = EXCLUDED.content
	`
	_, err := tx.ExecContext(ctx, query, id[:], string(post.Author), post.Content)
	return err
}

func resetComments(ctx context.Context, tx *sql.Tx, id models.Hash) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE post_id = $1", id[:]); err != nil {
		return err
	}
	query := `
		INSERT INTO comment_threads (post_id, next_seq)
		VALUES ($1, 0)
		ON CONFLICT (post_id) DO UPDATE SET next_seq = 0
	`
	_, err := tx.ExecContext(ctx, query, id[:])
	return err
}

// appendComment claims the next sequence number, locking the thread row
// until the transaction ends
func appendComment(ctx context.Context, tx *sql.Tx, id models.Hash, c models.Comment) error {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`UPDATE comment_threads SET next_seq = next_seq + 1 WHERE post_id = $1 RETURNING next_seq - 1`,
		id[:],
	).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ErrPostNotFound
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO comments (post_id, seq, author, content) VALUES ($1, $2, $3, $4)`,
		id[:], seq, string(c.Author), c.Content,
	)
	return err
}
