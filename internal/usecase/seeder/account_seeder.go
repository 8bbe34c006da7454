package seeder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/minibank-backend/internal/domain"
)

// Fixed UUIDs for the demo accounts, stable across resets and restarts
var (
	ALICE_ID   = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	BOB_ID     = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	CHARLIE_ID = uuid.MustParse("00000000-0000-4000-8000-000000000003")
	ADMIN_ID   = uuid.MustParse("00000000-0000-4000-8000-0000000000ad")
)

// DefaultStartingBalance is the balance every seed account starts with
var DefaultStartingBalance = decimal.NewFromInt(10000)

// SeedAccount defines the structure for an account to be seeded
type SeedAccount struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  domain.Role
}

var seedAccounts = []SeedAccount{
	{ID: ALICE_ID, Name: "Alice Johnson", Email: "alice@example.com", Role: domain.RoleUser},
	{ID: BOB_ID, Name: "Bob Smith", Email: "bob@example.com", Role: domain.RoleUser},
	{ID: CHARLIE_ID, Name: "Charlie Brown", Email: "charlie@example.com", Role: domain.RoleUser},
	{ID: ADMIN_ID, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin},
}

// AccountSeeder handles seeding of the demo accounts
type AccountSeeder struct {
	store   domain.LedgerStore
	balance decimal.Decimal
	secret  string
}

// NewAccountSeeder creates a new AccountSeeder instance
// A non-positive balance falls back to DefaultStartingBalance.
func NewAccountSeeder(store domain.LedgerStore, balance decimal.Decimal, secret string) *AccountSeeder {
	if !balance.IsPositive() {
		balance = DefaultStartingBalance
	}
	return &AccountSeeder{
		store:   store,
		balance: balance,
		secret:  secret,
	}
}

// Accounts returns the full seed set with starting balances
// This is the set Admin Reset restores.
func (s *AccountSeeder) Accounts() []domain.Account {
	accounts := make([]domain.Account, 0, len(seedAccounts))
	for _, seed := range seedAccounts {
		accounts = append(accounts, domain.Account{
			ID:      seed.ID,
			Name:    seed.Name,
			Email:   seed.Email,
			Secret:  s.secret,
			Role:    seed.Role,
			Balance: s.balance,
		})
	}
	return accounts
}

// Seed ensures all seed accounts exist in the store
// If an account doesn't exist, it creates it; existing balances are left alone
func (s *AccountSeeder) Seed(ctx context.Context) error {
	for _, account := range s.Accounts() {
		// Try to get the account by ID
		_, err := s.store.GetAccount(ctx, account.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}

		// Account doesn't exist, create it
		if err := account.Validate(); err != nil {
			return err
		}
		if err := s.store.CreateAccount(ctx, &account); err != nil {
			return err
		}
	}

	return nil
}
