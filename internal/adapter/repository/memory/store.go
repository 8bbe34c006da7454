package memory

import (
	"cmp"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/simaogato/minibank-backend/internal/domain"
)

// Store is an in-memory implementation of domain.LedgerStore.
// A single RWMutex makes every write (ApplyTransfer, ResetAll, CreateAccount)
// one whole-store atomic unit. Reads share the lock and return copies, so no
// reader ever observes a half-applied transfer.
type Store struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
	byEmail  map[string]uuid.UUID
	entries  []domain.LedgerEntry

	now     func() time.Time
	entropy io.Reader // guarded by mu
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to timestamp ledger entries
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty in-memory store
func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts: make(map[uuid.UUID]*domain.Account),
		byEmail:  make(map[string]uuid.UUID),
		entries:  make([]domain.LedgerEntry, 0),
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAccount retrieves an account by its ID
func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.NewAccountNotFound(domain.PartyAccount, id)
	}
	cp := *acc
	return &cp, nil
}

// GetAccountByEmail retrieves an account by its email
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("account with email %q: %w", email, domain.ErrAccountNotFound)
	}
	cp := *s.accounts[id]
	return &cp, nil
}

// ListAccounts retrieves all accounts ordered by name, then ID
func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		cp := *acc
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Account) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out, nil
}

// CreateAccount inserts a new account
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(*account)
}

func (s *Store) insertLocked(account domain.Account) error {
	if _, exists := s.accounts[account.ID]; exists {
		return fmt.Errorf("account %s already exists", account.ID)
	}
	if _, exists := s.byEmail[account.Email]; exists {
		return fmt.Errorf("account email %q already exists", account.Email)
	}
	s.accounts[account.ID] = &account
	s.byEmail[account.Email] = account.ID
	return nil
}

// ListEntriesFor retrieves the entries involving the account, newest first
func (s *Store) ListEntriesFor(ctx context.Context, accountID uuid.UUID) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.LedgerEntry, 0)
	for _, entry := range s.entries {
		if entry.Involves(accountID) {
			out = append(out, &entry)
		}
	}
	slices.SortFunc(out, domain.NewerFirst)
	return out, nil
}

// ListAllEntries retrieves every entry, newest first
func (s *Store) ListAllEntries(ctx context.Context) ([]*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.LedgerEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, &entry)
	}
	slices.SortFunc(out, domain.NewerFirst)
	return out, nil
}

// GetEntry retrieves a single entry by its ID
func (s *Store) GetEntry(ctx context.Context, id ulid.ULID) (*domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.entries, func(e domain.LedgerEntry) bool {
		return e.ID == id
	})
	if i < 0 {
		return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrEntryNotFound)
	}
	cp := s.entries[i]
	return &cp, nil
}

// ApplyTransfer executes the transfer as one atomic unit under the write lock
// Checks run in order: source exists, destination exists, amount, self-transfer, balance.
func (s *Store) ApplyTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.Unavailable("apply transfer", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Resolve both accounts from the same snapshot
	source, ok := s.accounts[req.SourceID]
	if !ok {
		return nil, domain.NewAccountNotFound(domain.PartySource, req.SourceID)
	}
	destination, ok := s.accounts[req.DestinationID]
	if !ok {
		return nil, domain.NewAccountNotFound(domain.PartyDestination, req.DestinationID)
	}

	// 2. Validate against that snapshot
	if err := domain.ValidateTransfer(source, destination, req.Amount); err != nil {
		return nil, err
	}

	// 3. Allocate the entry before touching balances so a failure leaves no trace
	now := s.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return nil, domain.Unavailable("allocate entry id", err)
	}
	entry := domain.NewLedgerEntry(id, source, destination, req.Amount, now)

	// 4. Mutate
	domain.Apply(source, destination, req.Amount)
	s.entries = append(s.entries, entry)

	return &domain.TransferResult{
		Source:      *source,
		Destination: *destination,
		Entry:       entry,
	}, nil
}

// ResetAll wipes entries and accounts and recreates the seed set
// The seed is validated first; an invalid seed leaves the store untouched.
func (s *Store) ResetAll(ctx context.Context, seed []domain.Account) error {
	for i := range seed {
		if err := seed[i].Validate(); err != nil {
			return fmt.Errorf("invalid seed account %q: %w", seed[i].Email, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make(map[uuid.UUID]*domain.Account, len(seed))
	byEmail := make(map[string]uuid.UUID, len(seed))
	for _, acc := range seed {
		if _, dup := accounts[acc.ID]; dup {
			return fmt.Errorf("duplicate seed account %s", acc.ID)
		}
		if _, dup := byEmail[acc.Email]; dup {
			return fmt.Errorf("duplicate seed email %q", acc.Email)
		}
		cp := acc
		accounts[acc.ID] = &cp
		byEmail[acc.Email] = acc.ID
	}

	s.accounts = accounts
	s.byEmail = byEmail
	s.entries = make([]domain.LedgerEntry, 0)
	return nil
}

// Compile-time check: ensure Store implements LedgerStore interface
var _ domain.LedgerStore = (*Store)(nil)
