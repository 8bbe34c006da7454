package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferCompleted is published after a transfer has been committed
type TransferCompleted struct {
	EntryID            string          `json:"entry_id"`
	SourceID           string          `json:"source_id"`
	DestinationID      string          `json:"destination_id"`
	Amount             decimal.Decimal `json:"amount"`
	SourceBalance      decimal.Decimal `json:"source_balance"`
	DestinationBalance decimal.Decimal `json:"destination_balance"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

// NewTransferCompleted builds the event for a committed transfer
func NewTransferCompleted(result *TransferResult) TransferCompleted {
	return TransferCompleted{
		EntryID:            result.Entry.ID.String(),
		SourceID:           result.Source.ID.String(),
		DestinationID:      result.Destination.ID.String(),
		Amount:             result.Entry.Amount,
		SourceBalance:      result.Source.Balance,
		DestinationBalance: result.Destination.Balance,
		OccurredAt:         result.Entry.CreatedAt,
	}
}
