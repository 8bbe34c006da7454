package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/simaogato/minibank-backend/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	alice := &domain.Account{ID: uuid.New(), Name: "Alice Johnson", Email: "alice@example.com", Secret: "password123", Role: domain.RoleUser}

	tests := []struct {
		name     string
		email    string
		secret   string
		setup    func(m *mocks.MockLedgerStore)
		wantKind domain.Kind
	}{
		{
			name:   "Correct credentials",
			email:  "alice@example.com",
			secret: "password123",
			setup: func(m *mocks.MockLedgerStore) {
				m.On("GetAccountByEmail", ctx, "alice@example.com").Return(alice, nil)
			},
			wantKind: domain.KindNone,
		},
		{
			name:   "Wrong secret",
			email:  "alice@example.com",
			secret: "password124",
			setup: func(m *mocks.MockLedgerStore) {
				m.On("GetAccountByEmail", ctx, "alice@example.com").Return(alice, nil)
			},
			wantKind: domain.KindUnauthorized,
		},
		{
			name:   "Unknown email",
			email:  "mallory@example.com",
			secret: "password123",
			setup: func(m *mocks.MockLedgerStore) {
				m.On("GetAccountByEmail", ctx, "mallory@example.com").Return(nil, domain.ErrAccountNotFound)
			},
			wantKind: domain.KindUnauthorized,
		},
		{
			name:     "Empty secret",
			email:    "alice@example.com",
			secret:   "",
			setup:    func(m *mocks.MockLedgerStore) {},
			wantKind: domain.KindUnauthorized,
		},
		{
			name:   "Store outage",
			email:  "alice@example.com",
			secret: "password123",
			setup: func(m *mocks.MockLedgerStore) {
				m.On("GetAccountByEmail", ctx, "alice@example.com").Return(nil, domain.Unavailable("get account by email", errors.New("refused")))
			},
			wantKind: domain.KindStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(mocks.MockLedgerStore)
			tt.setup(mockStore)
			service := NewAuthService(mockStore)

			account, err := service.Authenticate(ctx, tt.email, tt.secret)

			assert.Equal(t, tt.wantKind, domain.KindOf(err))
			if tt.wantKind == domain.KindNone {
				assert.Equal(t, alice.ID, account.ID)
				assert.Empty(t, account.Secret)
				assert.Equal(t, "password123", alice.Secret)
			} else {
				assert.Nil(t, account)
			}
		})
	}
}

func TestAuthenticate_EmptyEmailSkipsStore(t *testing.T) {
	mockStore := new(mocks.MockLedgerStore)
	service := NewAuthService(mockStore)

	_, err := service.Authenticate(context.Background(), "", "x")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	mockStore.AssertNotCalled(t, "GetAccountByEmail", mock.Anything, mock.Anything)
}
