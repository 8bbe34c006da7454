package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/simaogato/minibank-backend/internal/domain"
)

// DefaultChannel is the pub/sub channel committed transfers are announced on
const DefaultChannel = "transfer_events"

type channelPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher announces TransferCompleted events over Redis pub/sub
type Publisher struct {
	rdb     channelPublisher
	channel string
	closer  func() error
}

// NewPublisher creates a Redis publisher from connection options
func NewPublisher(addr, password, channel string) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	p := newPublisher(rdb, channel)
	p.closer = rdb.Close
	return p
}

func newPublisher(rdb channelPublisher, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{rdb: rdb, channel: channel}
}

// PublishTransferCompleted publishes the event to the configured channel
func (p *Publisher) PublishTransferCompleted(ctx context.Context, event domain.TransferCompleted) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Close closes the Redis client when the publisher owns it
func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

var _ domain.EventPublisher = (*Publisher)(nil)
