package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of fractional digits an amount may carry (whole cents)
	AmountScale = 2

	// MaxAmountIntegerDigits is the widest whole part a balance column holds (NUMERIC(20,2))
	MaxAmountIntegerDigits = 18

	// maxAmountPrecision caps the coefficient digits, trailing zeros included
	maxAmountPrecision = 40
)

// TransferRequest represents an intent to move money between two accounts
type TransferRequest struct {
	SourceID      uuid.UUID
	DestinationID uuid.UUID
	Amount        decimal.Decimal
}

// TransferResult holds the post-mutation snapshots of both accounts and the
// ledger entry appended in the same atomic unit
type TransferResult struct {
	Source      Account
	Destination Account
	Entry       LedgerEntry
}

// Public returns a copy of the result with both credential secrets stripped
func (r TransferResult) Public() TransferResult {
	r.Source = r.Source.Public()
	r.Destination = r.Destination.Public()
	return r
}

// ValidateAmount ensures an amount is strictly positive, fits a balance column
// and is expressed in whole cents.
// Exponent notation ("1e20000000") parses into a tiny coefficient with a huge
// exponent, so size is checked on coefficient and exponent before anything
// rescales the value.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	digits := int64(amount.NumDigits())
	exp := int64(amount.Exponent())
	if digits > maxAmountPrecision || digits+exp > MaxAmountIntegerDigits {
		return ErrInvalidAmount
	}

	if exp < -AmountScale {
		// Every digit below a cent must be zero
		if -exp-AmountScale > digits {
			return ErrInvalidAmount
		}
		if !amount.Equal(amount.Truncate(AmountScale)) {
			return ErrInvalidAmount
		}
	}
	return nil
}

// ValidateTransfer runs the checks that follow account resolution, in order:
// amount, self-transfer, then balance. Stores call it inside their atomic unit
// with the same snapshot they use to compute the new balances.
func ValidateTransfer(source, destination *Account, amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if source.ID == destination.ID {
		return ErrInvalidTransfer
	}
	if source.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// Apply moves amount from source to destination in place
// Callers must have run ValidateTransfer on the same snapshot.
func Apply(source, destination *Account, amount decimal.Decimal) {
	source.Balance = source.Balance.Sub(amount)
	destination.Balance = destination.Balance.Add(amount)
}
