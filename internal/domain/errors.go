package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrEntryNotFound       = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("invalid amount: must be greater than zero with at most 2 decimal places")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransfer     = errors.New("invalid transfer: source and destination must differ")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// Party identifies which side of a transfer an error refers to
type Party string

const (
	PartySource      Party = "source"
	PartyDestination Party = "destination"
	PartyAccount     Party = "account"
)

// AccountNotFoundError reports a missing account and which side it was on
type AccountNotFoundError struct {
	Which Party
	ID    string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("%s account not found: %s", e.Which, e.ID)
}

// Unwrap lets errors.Is(err, ErrAccountNotFound) match
func (e *AccountNotFoundError) Unwrap() error {
	return ErrAccountNotFound
}

// NewAccountNotFound builds an AccountNotFoundError
func NewAccountNotFound(which Party, id fmt.Stringer) error {
	return &AccountNotFoundError{Which: which, ID: id.String()}
}

// StoreUnavailableError reports that the store's atomic unit could not be
// acquired or committed. It is the only retryable kind.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// Unavailable wraps an infrastructure failure of op as a StoreUnavailableError
func Unavailable(op string, err error) error {
	return &StoreUnavailableError{Op: op, Err: err}
}

// IsRetryable reports whether a caller may retry the failed request
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// Kind classifies errors for the boundary layers
type Kind int

const (
	KindNone Kind = iota
	KindAccountNotFound
	KindEntryNotFound
	KindInvalidAmount
	KindInsufficientBalance
	KindInvalidTransfer
	KindUnauthorized
	KindStoreUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAccountNotFound:
		return "account_not_found"
	case KindEntryNotFound:
		return "entry_not_found"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindInvalidTransfer:
		return "invalid_transfer"
	case KindUnauthorized:
		return "unauthorized"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "internal"
	}
}

// KindOf returns the Kind of err
// Store outages take precedence: a wrapped cause never hides them.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrEntryNotFound):
		return KindEntryNotFound
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrInvalidTransfer):
		return KindInvalidTransfer
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
