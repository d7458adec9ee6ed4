package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/blogchain/internal/ledger"
	"github.com/blogchain/internal/models"
)

// Publisher broadcasts ledger events on a Redis pub/sub channel
type Publisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
	log     zerolog.Logger
}

// Verify interface compliance
var _ ledger.EventSink = (*Publisher)(nil)

// NewPublisher creates an event publisher for channel
func NewPublisher(client redis.UniversalClient, channel string, log zerolog.Logger) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
		timeout: 2 * time.Second,
		log:     log.With().Str("component", "redis_publisher").Logger(),
	}
}

// Deposit publishes the event as JSON. Failures are logged, not returned.
func (p *Publisher) Deposit(ev models.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("kind", string(ev.Kind)).Msg("Failed to encode event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		p.log.Warn().Err(err).
			Str("kind", string(ev.Kind)).
			Str("post_id", ev.PostID.String()).
			Msg("Failed to publish event")
	}
}
