package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	channel string
	payload []byte
}

type fakeRedis struct {
	sent []published
	err  error
}

func (f *fakeRedis) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.sent = append(f.sent, published{channel: channel, payload: message.([]byte)})
	cmd.SetVal(1)
	return cmd
}

func TestPublisher_PublishTransferCompleted(t *testing.T) {
	fake := &fakeRedis{}
	publisher := newPublisher(fake, "")
	event := domain.TransferCompleted{
		EntryID:    "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Amount:     decimal.NewFromInt(25),
		OccurredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, publisher.PublishTransferCompleted(context.Background(), event))

	require.Len(t, fake.sent, 1)
	assert.Equal(t, DefaultChannel, fake.sent[0].channel)
	var decoded domain.TransferCompleted
	require.NoError(t, json.Unmarshal(fake.sent[0].payload, &decoded))
	assert.Equal(t, event.EntryID, decoded.EntryID)
	assert.True(t, decoded.Amount.Equal(event.Amount))
}

func TestPublisher_PublishError(t *testing.T) {
	fake := &fakeRedis{err: errors.New("connection refused")}
	publisher := newPublisher(fake, "custom")

	err := publisher.PublishTransferCompleted(context.Background(), domain.TransferCompleted{})

	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, publisher.Close())
}
