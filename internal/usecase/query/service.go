package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/simaogato/minibank-backend/internal/domain"
)

// QueryService exposes read-only views over accounts and the ledger.
// It never mutates the store.
type QueryService struct {
	Store domain.LedgerStore
}

// NewQueryService creates a new QueryService instance
func NewQueryService(store domain.LedgerStore) *QueryService {
	return &QueryService{Store: store}
}

// GetAccount returns a single account without its secret
func (s *QueryService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.Store.GetAccount(ctx, domain.ParseAccountID(accountID))
	if err != nil {
		return nil, err
	}
	public := account.Public()
	return &public, nil
}

// ListAccounts returns every account ordered by name, without secrets
func (s *QueryService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.Store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	return domain.PublicAccounts(accounts), nil
}

// ListEntriesFor returns the entries where the account is source or
// destination, newest first. An absent account is reported as not found.
func (s *QueryService) ListEntriesFor(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	id := domain.ParseAccountID(accountID)
	if _, err := s.Store.GetAccount(ctx, id); err != nil {
		return nil, err
	}
	return s.Store.ListEntriesFor(ctx, id)
}

// ListEntriesForRequester returns the history of accountID on behalf of an
// authenticated requester. An empty accountID means the requester's own
// history; any other account requires an admin requester.
func (s *QueryService) ListEntriesForRequester(ctx context.Context, requesterID, accountID string) ([]*domain.LedgerEntry, error) {
	if accountID == "" {
		accountID = requesterID
	}
	if accountID != requesterID {
		if err := RequireAdmin(ctx, s.Store, requesterID); err != nil {
			return nil, err
		}
	}
	return s.ListEntriesFor(ctx, accountID)
}

// ListAllEntries returns every entry, newest first. Only admins may see it.
func (s *QueryService) ListAllEntries(ctx context.Context, requesterID string) ([]*domain.LedgerEntry, error) {
	if err := RequireAdmin(ctx, s.Store, requesterID); err != nil {
		return nil, err
	}
	return s.Store.ListAllEntries(ctx)
}

// GetEntry returns a single entry. A malformed ID is reported as not found.
func (s *QueryService) GetEntry(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	id, err := ulid.ParseStrict(entryID)
	if err != nil {
		return nil, fmt.Errorf("transaction %q: %w", entryID, domain.ErrEntryNotFound)
	}
	return s.Store.GetEntry(ctx, id)
}

// RequireAdmin checks that the requester exists and holds the admin role.
// A missing requester is Unauthorized; a store outage is passed through.
func RequireAdmin(ctx context.Context, store domain.LedgerStore, requesterID string) error {
	requester, err := store.GetAccount(ctx, domain.ParseAccountID(requesterID))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("unknown requester %q: %w", requesterID, domain.ErrUnauthorized)
		}
		return err
	}
	if !requester.IsAdmin() {
		return fmt.Errorf("requester %s is not an admin: %w", requester.ID, domain.ErrUnauthorized)
	}
	return nil
}
