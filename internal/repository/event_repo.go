package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/database"
	"github.com/blogchain/internal/models"
)

// eventRepo is the concrete implementation of EventRepository
type eventRepo struct {
	db      *database.DB
	log     zerolog.Logger
	timeout time.Duration
}

// NewEventRepo creates a new event repository
func NewEventRepo(db *database.DB) EventRepository {
	return &eventRepo{
		db:      db,
		log:     db.Logger().With().Str("repo", "events").Logger(),
		timeout: 5 * time.Second,
	}
}

// Deposit appends an event to the log. Failures are logged, not returned.
func (r *eventRepo) Deposit(ev models.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	query := `
		INSERT INTO events (id, kind, account, post_id, content)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New().String(), string(ev.Kind), string(ev.Account), ev.PostID[:], ev.Content,
	)
	if err != nil {
		r.log.Error().Err(err).
			Str("kind", string(ev.Kind)).
			Str("post_id", ev.PostID.String()).
			Msg("Failed to persist event")
	}
}

// Recent returns up to limit of the newest events, oldest first
func (r *eventRepo) Recent(ctx context.Context, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT kind, account, post_id, content FROM events
		ORDER BY seq DESC LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		var kind, account string
		var postID []byte
		if err := rows.Scan(&kind, &account, &postID, &ev.Content); err != nil {
			return nil, err
		}
		ev.Kind = models.EventKind(kind)
		ev.Account = models.AccountID(account)
		if ev.PostID, err = models.HashFromBytes(postID); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
