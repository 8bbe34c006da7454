package domain

import (
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newAccount(name string, balance int64) *Account {
	return &Account{
		ID:      uuid.New(),
		Name:    name,
		Email:   name + "@example.com",
		Role:    RoleUser,
		Balance: decimal.NewFromInt(balance),
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{name: "whole amount", amount: decimal.NewFromInt(3000)},
		{name: "whole cents", amount: decimal.RequireFromString("12.34")},
		{name: "trailing zeros beyond scale", amount: decimal.RequireFromString("1.500")},
		{name: "zero", amount: decimal.Zero, wantErr: true},
		{name: "negative", amount: decimal.NewFromInt(-5), wantErr: true},
		{name: "fraction of a cent", amount: decimal.RequireFromString("0.001"), wantErr: true},
		{name: "largest column value", amount: decimal.RequireFromString("999999999999999999.99")},
		{name: "small positive exponent", amount: decimal.RequireFromString("5e3")},
		{name: "whole part wider than the column", amount: decimal.RequireFromString("1000000000000000000"), wantErr: true},
		{name: "huge positive exponent", amount: decimal.RequireFromString("1e20000000"), wantErr: true},
		{name: "huge negative exponent", amount: decimal.RequireFromString("1e-999999999"), wantErr: true},
		{name: "too many digits", amount: decimal.RequireFromString("1." + strings.Repeat("0", 60)), wantErr: true},
		{name: "zero value", amount: decimal.Decimal{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTransfer(t *testing.T) {
	alice := newAccount("alice", 7000)
	bob := newAccount("bob", 10000)

	tests := []struct {
		name        string
		source      *Account
		destination *Account
		amount      decimal.Decimal
		wantErr     error
	}{
		{
			name:        "Affordable transfer should pass",
			source:      alice,
			destination: bob,
			amount:      decimal.NewFromInt(3000),
		},
		{
			name:        "Draining the full balance should pass",
			source:      alice,
			destination: bob,
			amount:      decimal.NewFromInt(7000),
		},
		{
			name:        "Negative amount should fail",
			source:      alice,
			destination: bob,
			amount:      decimal.NewFromInt(-5),
			wantErr:     ErrInvalidAmount,
		},
		{
			name:        "Amount is checked before balance",
			source:      alice,
			destination: bob,
			amount:      decimal.RequireFromString("999999999.999"),
			wantErr:     ErrInvalidAmount,
		},
		{
			name:        "Self transfer should be rejected",
			source:      alice,
			destination: alice,
			amount:      decimal.NewFromInt(1),
			wantErr:     ErrInvalidTransfer,
		},
		{
			name:        "Overdraft should fail",
			source:      alice,
			destination: bob,
			amount:      decimal.NewFromInt(999999999),
			wantErr:     ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransfer(tt.source, tt.destination, tt.amount)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApply_ConservesTotal(t *testing.T) {
	alice := newAccount("alice", 10000)
	bob := newAccount("bob", 10000)

	Apply(alice, bob, decimal.NewFromInt(3000))

	assert.True(t, alice.Balance.Equal(decimal.NewFromInt(7000)))
	assert.True(t, bob.Balance.Equal(decimal.NewFromInt(13000)))
	assert.True(t, alice.Balance.Add(bob.Balance).Equal(decimal.NewFromInt(20000)))
}

func TestNewLedgerEntry_SnapshotsNames(t *testing.T) {
	alice := newAccount("Alice Johnson", 10000)
	bob := newAccount("Bob Smith", 10000)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	id := ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy())

	entry := NewLedgerEntry(id, alice, bob, decimal.NewFromInt(250), at)

	// A later rename must not change the recorded name
	alice.Name = "Alice Cooper"

	assert.Equal(t, id, entry.ID)
	assert.Equal(t, alice.ID, entry.SourceID)
	assert.Equal(t, bob.ID, entry.DestinationID)
	assert.Equal(t, "Alice Johnson", entry.SourceName)
	assert.Equal(t, "Bob Smith", entry.DestinationName)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, at, entry.CreatedAt)
	assert.NoError(t, entry.Validate())
	assert.True(t, entry.Involves(alice.ID))
	assert.True(t, entry.Involves(bob.ID))
	assert.False(t, entry.Involves(uuid.New()))
}

func TestLedgerEntry_Validate(t *testing.T) {
	entry := LedgerEntry{SourceID: uuid.New(), DestinationID: uuid.New(), Amount: decimal.Zero}
	assert.ErrorContains(t, entry.Validate(), "amount must be positive")

	entry = LedgerEntry{Amount: decimal.NewFromInt(1)}
	assert.ErrorContains(t, entry.Validate(), "must reference a source and a destination")
}

func TestNewerFirst(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entropy := ulid.Monotonic(rand.Reader, 0)
	older := &LedgerEntry{ID: ulid.MustNew(ulid.Timestamp(base), entropy), CreatedAt: base}
	sameTime := &LedgerEntry{ID: ulid.MustNew(ulid.Timestamp(base), entropy), CreatedAt: base}
	newer := &LedgerEntry{ID: ulid.MustNew(ulid.Timestamp(base.Add(time.Second)), entropy), CreatedAt: base.Add(time.Second)}

	assert.Negative(t, NewerFirst(newer, older))
	assert.Positive(t, NewerFirst(older, newer))
	// Same timestamp falls back to creation order of the ULID
	assert.Negative(t, NewerFirst(sameTime, older))
	assert.Zero(t, NewerFirst(older, older))
}

func TestTransferResult_Public(t *testing.T) {
	result := TransferResult{
		Source:      Account{ID: uuid.New(), Secret: "s"},
		Destination: Account{ID: uuid.New(), Secret: "d"},
	}

	public := result.Public()

	assert.Empty(t, public.Source.Secret)
	assert.Empty(t, public.Destination.Secret)
	assert.Equal(t, "s", result.Source.Secret)
}

func TestNewTransferCompleted(t *testing.T) {
	at := time.Now().UTC()
	alice := newAccount("alice", 7000)
	bob := newAccount("bob", 13000)
	id := ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy())
	result := &TransferResult{
		Source:      *alice,
		Destination: *bob,
		Entry:       NewLedgerEntry(id, alice, bob, decimal.NewFromInt(3000), at),
	}

	event := NewTransferCompleted(result)

	assert.Equal(t, id.String(), event.EntryID)
	assert.Equal(t, alice.ID.String(), event.SourceID)
	assert.Equal(t, bob.ID.String(), event.DestinationID)
	assert.True(t, event.Amount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, event.SourceBalance.Equal(decimal.NewFromInt(7000)))
	assert.True(t, event.DestinationBalance.Equal(decimal.NewFromInt(13000)))
	assert.Equal(t, at, event.OccurredAt)
}
