package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/minibank-backend/internal/domain"
	"go.uber.org/zap"
)

// DefaultPublishTimeout bounds how long a committed transfer waits on the event sink
const DefaultPublishTimeout = 2 * time.Second

// TransferInput represents the input for moving money between two accounts
type TransferInput struct {
	// RequesterID is the authenticated caller. When set, it must match SourceID.
	RequesterID   string
	SourceID      string
	DestinationID string
	Amount        decimal.Decimal
}

// TransferService handles money transfers between accounts
type TransferService struct {
	Store          domain.LedgerStore
	Publisher      domain.EventPublisher
	PublishTimeout time.Duration
	logger         *zap.Logger
}

// NewTransferService creates a new TransferService instance
func NewTransferService(store domain.LedgerStore, publisher domain.EventPublisher, logger *zap.Logger) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransferService{
		Store:          store,
		Publisher:      publisher,
		PublishTimeout: DefaultPublishTimeout,
		logger:         logger.Named("transfer"),
	}
}

// Execute moves Amount from the source to the destination account
// Logic:
//  1. Resolve the raw IDs (unparseable IDs never resolve)
//  2. Check the caller is moving its own money
//  3. Hand the request to the store, which validates and applies it as one atomic unit
//  4. Announce the committed transfer; a publish failure is logged, not returned
//  5. Return both updated accounts without their secrets
func (s *TransferService) Execute(ctx context.Context, input TransferInput) (*domain.TransferResult, error) {
	// 1. Resolve IDs
	req := domain.TransferRequest{
		SourceID:      domain.ParseAccountID(input.SourceID),
		DestinationID: domain.ParseAccountID(input.DestinationID),
		Amount:        input.Amount,
	}

	// 2. Caller must own the source account (compared as UUIDs, not spellings)
	if input.RequesterID != "" {
		requester := domain.ParseAccountID(input.RequesterID)
		if requester == uuid.Nil || requester != req.SourceID {
			s.logger.Warn("transfer rejected: source is not the caller",
				zap.String("requester_id", input.RequesterID),
				zap.String("source_id", input.SourceID),
			)
			return nil, fmt.Errorf("cannot transfer from another account: %w", domain.ErrUnauthorized)
		}
	}

	// 3. Apply
	result, err := s.Store.ApplyTransfer(ctx, req)
	if err != nil {
		fields := []zap.Field{
			zap.String("source_id", input.SourceID),
			zap.String("destination_id", input.DestinationID),
			zap.String("amount", input.Amount.String()),
			zap.Stringer("kind", domain.KindOf(err)),
			zap.Error(err),
		}
		if domain.IsRetryable(err) {
			s.logger.Error("transfer failed", fields...)
		} else {
			s.logger.Info("transfer rejected", fields...)
		}
		return nil, err
	}

	s.logger.Info("transfer committed",
		zap.String("entry_id", result.Entry.ID.String()),
		zap.String("source_id", result.Source.ID.String()),
		zap.String("destination_id", result.Destination.ID.String()),
		zap.String("amount", result.Entry.Amount.String()),
	)

	// 4. Publish after commit
	s.publish(ctx, result)

	// 5. Strip secrets
	public := result.Public()
	return &public, nil
}

// publish announces a committed transfer. The transfer is already durable, so
// the event outlives a cancelled request but not the publish timeout.
func (s *TransferService) publish(ctx context.Context, result *domain.TransferResult) {
	if s.Publisher == nil {
		return
	}

	timeout := s.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.Publisher.PublishTransferCompleted(pubCtx, domain.NewTransferCompleted(result)); err != nil {
		s.logger.Warn("failed to publish transfer event",
			zap.String("entry_id", result.Entry.ID.String()),
			zap.Error(err),
		)
	}
}
