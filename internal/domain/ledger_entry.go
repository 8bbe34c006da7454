package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// LedgerEntry represents the immutable record of one completed transfer
// SourceName and DestinationName are snapshots captured at write time:
// a later rename does not change historical entries.
type LedgerEntry struct {
	ID              ulid.ULID       `json:"id"`
	SourceID        uuid.UUID       `json:"fromUserId"`
	DestinationID   uuid.UUID       `json:"toUserId"`
	SourceName      string          `json:"fromUserName"`
	DestinationName string          `json:"toUserName"`
	Amount          decimal.Decimal `json:"amount"`
	CreatedAt       time.Time       `json:"timestamp"`
}

// NewLedgerEntry builds the entry recording a transfer between two accounts
// The display names are copied from the accounts as they are at this instant.
func NewLedgerEntry(id ulid.ULID, source, destination *Account, amount decimal.Decimal, at time.Time) LedgerEntry {
	return LedgerEntry{
		ID:              id,
		SourceID:        source.ID,
		DestinationID:   destination.ID,
		SourceName:      source.Name,
		DestinationName: destination.Name,
		Amount:          amount,
		CreatedAt:       at,
	}
}

// Validate ensures the entry adheres to domain rules
func (e *LedgerEntry) Validate() error {
	if e.SourceID == uuid.Nil || e.DestinationID == uuid.Nil {
		return errors.New("ledger entry must reference a source and a destination account")
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("ledger entry amount must be positive")
	}
	return nil
}

// Involves reports whether the account is the source or destination of the entry
func (e *LedgerEntry) Involves(accountID uuid.UUID) bool {
	return e.SourceID == accountID || e.DestinationID == accountID
}

// NewerFirst orders entries by creation time descending, newest first.
// Entry ids are ULIDs, so they break ties in creation order.
func NewerFirst(a, b *LedgerEntry) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return b.ID.Compare(a.ID)
}
