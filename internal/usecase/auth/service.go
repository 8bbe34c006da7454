package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/simaogato/minibank-backend/internal/domain"
)

// AuthService authenticates accounts by email and secret
type AuthService struct {
	Store domain.LedgerStore
}

// NewAuthService creates a new AuthService instance
func NewAuthService(store domain.LedgerStore) *AuthService {
	return &AuthService{Store: store}
}

// Authenticate returns the account matching the credentials, without its secret.
// Unknown emails and wrong secrets are indistinguishable to the caller.
// Secrets are compared verbatim: plaintext storage is a placeholder and must be
// replaced by a password hash before any real use.
func (s *AuthService) Authenticate(ctx context.Context, email, secret string) (*domain.Account, error) {
	if email == "" || secret == "" {
		return nil, fmt.Errorf("email and secret are required: %w", domain.ErrUnauthorized)
	}

	account, err := s.Store.GetAccountByEmail(ctx, email)
	if err != nil {
		if domain.IsRetryable(err) {
			return nil, err
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(account.Secret), []byte(secret)) != 1 {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	public := account.Public()
	return &public, nil
}
