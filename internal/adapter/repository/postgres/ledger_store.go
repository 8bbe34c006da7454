package postgres

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/simaogato/minibank-backend/internal/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = pq.ErrorCode("23505")

// ledgerStore implements domain.LedgerStore on PostgreSQL
type ledgerStore struct {
	db  *DB
	now func() time.Time

	entropyMu sync.Mutex
	entropy   io.Reader
}

// NewLedgerStore creates a new PostgreSQL-backed ledger store
func NewLedgerStore(db *DB) domain.LedgerStore {
	return &ledgerStore{
		db:      db,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

const accountColumns = `id, name, email, secret, role, balance`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	var role string
	var balanceStr string

	if err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.Secret,
		&role,
		&balanceStr,
	); err != nil {
		return nil, err
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	account.Role = domain.Role(role)
	account.Balance = balance

	return &account, nil
}

const entryColumns = `id, source_id, destination_id, source_name, destination_name, amount, created_at`

func scanEntry(row rowScanner) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var idStr string
	var amountStr string

	if err := row.Scan(
		&idStr,
		&entry.SourceID,
		&entry.DestinationID,
		&entry.SourceName,
		&entry.DestinationName,
		&amountStr,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}

	id, err := ulid.ParseStrict(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry id: %w", err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	entry.ID = id
	entry.Amount = amount
	entry.CreatedAt = entry.CreatedAt.UTC()

	return &entry, nil
}

// GetAccount retrieves an account by its ID
func (s *ledgerStore) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewAccountNotFound(domain.PartyAccount, id)
		}
		return nil, domain.Unavailable("get account", err)
	}
	return account, nil
}

// GetAccountByEmail retrieves an account by its email
func (s *ledgerStore) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with email %q: %w", email, domain.ErrAccountNotFound)
		}
		return nil, domain.Unavailable("get account by email", err)
	}
	return account, nil
}

// ListAccounts retrieves all accounts ordered by name, then ID
func (s *ledgerStore) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY name ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, domain.Unavailable("list accounts", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, domain.Unavailable("list accounts", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable("list accounts", err)
	}

	return accounts, nil
}

// CreateAccount inserts a new account
func (s *ledgerStore) CreateAccount(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	if err := insertAccount(ctx, s.db, account); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("account %s (%s) already exists", account.ID, account.Email)
		}
		return domain.Unavailable("create account", err)
	}
	return nil
}

// execer is satisfied by *DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAccount(ctx context.Context, exec execer, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, name, email, secret, role, balance)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := exec.ExecContext(ctx, query,
		account.ID,
		account.Name,
		account.Email,
		account.Secret,
		string(account.Role),
		account.Balance.StringFixed(domain.AmountScale),
	)
	return err
}

// ListEntriesFor retrieves the entries involving the account, newest first
func (s *ledgerStore) ListEntriesFor(ctx context.Context, accountID uuid.UUID) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE source_id = $1 OR destination_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return s.queryEntries(ctx, "list entries for account", query, accountID)
}

// ListAllEntries retrieves every entry, newest first
func (s *ledgerStore) ListAllEntries(ctx context.Context) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries
		ORDER BY created_at DESC, id DESC
	`
	return s.queryEntries(ctx, "list all entries", query)
}

func (s *ledgerStore) queryEntries(ctx context.Context, op, query string, args ...any) ([]*domain.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.Unavailable(op, err)
	}
	defer rows.Close()

	entries := make([]*domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, domain.Unavailable(op, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Unavailable(op, err)
	}

	return entries, nil
}

// GetEntry retrieves a single entry by its ID
func (s *ledgerStore) GetEntry(ctx context.Context, id ulid.ULID) (*domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`

	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, domain.ErrEntryNotFound)
		}
		return nil, domain.Unavailable("get entry", err)
	}
	return entry, nil
}

// ApplyTransfer executes the transfer in a single database transaction.
// Both account rows are locked in ID order so concurrent transfers over the
// same pair cannot deadlock.
func (s *ledgerStore) ApplyTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	// 1. Start a database transaction
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Unavailable("begin transfer", err)
	}
	defer dbTx.Rollback()

	// 2. Lock both rows
	lockQuery := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE
	`
	rows, err := dbTx.QueryContext(ctx, lockQuery, pq.Array([]string{req.SourceID.String(), req.DestinationID.String()}))
	if err != nil {
		return nil, domain.Unavailable("lock accounts", err)
	}
	locked := make(map[uuid.UUID]*domain.Account, 2)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			rows.Close()
			return nil, domain.Unavailable("lock accounts", err)
		}
		locked[account.ID] = account
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, domain.Unavailable("lock accounts", err)
	}
	rows.Close()

	// 3. Validate in the documented order
	source, ok := locked[req.SourceID]
	if !ok {
		return nil, domain.NewAccountNotFound(domain.PartySource, req.SourceID)
	}
	destination, ok := locked[req.DestinationID]
	if !ok {
		return nil, domain.NewAccountNotFound(domain.PartyDestination, req.DestinationID)
	}
	if err := domain.ValidateTransfer(source, destination, req.Amount); err != nil {
		return nil, err
	}

	// 4. Build the entry from the pre-transfer snapshot
	now := s.now().UTC().Truncate(time.Microsecond)
	id, err := s.newEntryID(now)
	if err != nil {
		return nil, domain.Unavailable("allocate entry id", err)
	}
	entry := domain.NewLedgerEntry(id, source, destination, req.Amount, now)

	// 5. Write both balances
	domain.Apply(source, destination, req.Amount)
	updateQuery := `UPDATE accounts SET balance = $1 WHERE id = $2`
	for _, account := range []*domain.Account{source, destination} {
		if _, err := dbTx.ExecContext(ctx, updateQuery, account.Balance.StringFixed(domain.AmountScale), account.ID); err != nil {
			return nil, domain.Unavailable("update balance", err)
		}
	}

	// 6. Append the ledger entry
	insertQuery := `
		INSERT INTO ledger_entries (id, source_id, destination_id, source_name, destination_name, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := dbTx.ExecContext(ctx, insertQuery,
		entry.ID.String(),
		entry.SourceID,
		entry.DestinationID,
		entry.SourceName,
		entry.DestinationName,
		entry.Amount.StringFixed(domain.AmountScale),
		entry.CreatedAt,
	); err != nil {
		return nil, domain.Unavailable("insert ledger entry", err)
	}

	// 7. Commit
	if err := dbTx.Commit(); err != nil {
		return nil, domain.Unavailable("commit transfer", err)
	}

	return &domain.TransferResult{
		Source:      *source,
		Destination: *destination,
		Entry:       entry,
	}, nil
}

func (s *ledgerStore) newEntryID(at time.Time) (ulid.ULID, error) {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.New(ulid.Timestamp(at), s.entropy)
}

// ResetAll deletes every entry and account and inserts the seed set.
// The exclusive table locks keep it from interleaving with any transfer.
func (s *ledgerStore) ResetAll(ctx context.Context, seed []domain.Account) error {
	for i := range seed {
		if err := seed[i].Validate(); err != nil {
			return fmt.Errorf("invalid seed account %q: %w", seed[i].Email, err)
		}
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Unavailable("begin reset", err)
	}
	defer dbTx.Rollback()

	statements := []string{
		`LOCK TABLE accounts, ledger_entries IN ACCESS EXCLUSIVE MODE`,
		`DELETE FROM ledger_entries`,
		`DELETE FROM accounts`,
	}
	for _, stmt := range statements {
		if _, err := dbTx.ExecContext(ctx, stmt); err != nil {
			return domain.Unavailable("reset", err)
		}
	}

	for i := range seed {
		if err := insertAccount(ctx, dbTx, &seed[i]); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return fmt.Errorf("duplicate seed account %s (%s)", seed[i].ID, seed[i].Email)
			}
			return domain.Unavailable("reseed", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return domain.Unavailable("commit reset", err)
	}
	return nil
}
