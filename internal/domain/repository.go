package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// LedgerStore defines the interface for the authoritative account and ledger tables.
// It is the only component allowed to mutate balances.
type LedgerStore interface {
	// GetAccount retrieves an account by its ID
	// Returns an AccountNotFoundError if it does not exist
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetAccountByEmail retrieves an account by its email (case-sensitive)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// ListAccounts retrieves all accounts ordered by name ascending, then by ID
	ListAccounts(ctx context.Context) ([]*Account, error)

	// CreateAccount inserts a new account (seeding only)
	CreateAccount(ctx context.Context, account *Account) error

	// ListEntriesFor retrieves the entries where the account is source or
	// destination, newest first
	ListEntriesFor(ctx context.Context, accountID uuid.UUID) ([]*LedgerEntry, error)

	// ListAllEntries retrieves every entry, newest first
	ListAllEntries(ctx context.Context) ([]*LedgerEntry, error)

	// GetEntry retrieves a single entry by its ID
	GetEntry(ctx context.Context, id ulid.ULID) (*LedgerEntry, error)

	// ApplyTransfer reads both accounts, validates, writes both balances and
	// appends one ledger entry as a single atomic unit
	ApplyTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)

	// ResetAll deletes every entry and account and recreates the seed set,
	// as its own atomic unit
	ResetAll(ctx context.Context, seed []Account) error
}

// EventPublisher defines the interface for announcing committed transfers
type EventPublisher interface {
	PublishTransferCompleted(ctx context.Context, event TransferCompleted) error
}
