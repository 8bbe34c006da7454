package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role represents the privilege level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account represents a user's identity plus balance record
// Balance is kept in whole-cent units (at most AmountScale fractional digits).
// Secret is compared verbatim on login: plaintext storage is a placeholder
// only and is NOT suitable for production, a real system must hash it.
type Account struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Secret  string          `json:"-"`
	Role    Role            `json:"role"`
	Balance decimal.Decimal `json:"balance"`
}

// Validate ensures the account adheres to domain rules
// Returns an error if validation fails
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return errors.New("account ID cannot be empty")
	}
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if a.Email == "" {
		return errors.New("account email cannot be empty")
	}
	if a.Role != RoleUser && a.Role != RoleAdmin {
		return errors.New("account role must be user or admin")
	}
	if a.Balance.IsNegative() {
		return errors.New("account balance cannot be negative")
	}
	return nil
}

// IsAdmin reports whether the account holds the admin role
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Public returns a copy of the account with its credential secret stripped.
// Every account leaving a use case towards a caller goes through Public.
func (a Account) Public() Account {
	a.Secret = ""
	return a
}

// PublicAccounts strips secrets from a list of accounts
func PublicAccounts(accounts []*Account) []*Account {
	out := make([]*Account, 0, len(accounts))
	for _, acc := range accounts {
		p := acc.Public()
		out = append(out, &p)
	}
	return out
}

// ParseAccountID parses a caller-supplied account identifier.
// An unparseable value yields uuid.Nil, which never resolves to an account,
// so it surfaces as AccountNotFound instead of a separate format error.
func ParseAccountID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
