// Package nop provides an EventPublisher that discards every event.
package nop

import (
	"context"

	"github.com/simaogato/minibank-backend/internal/domain"
)

// Publisher drops events
type Publisher struct{}

func (Publisher) PublishTransferCompleted(ctx context.Context, event domain.TransferCompleted) error {
	return nil
}

func (Publisher) Close() error {
	return nil
}

var _ domain.EventPublisher = Publisher{}
