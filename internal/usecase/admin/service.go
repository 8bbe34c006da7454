package admin

import (
	"context"

	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/simaogato/minibank-backend/internal/usecase/query"
	"go.uber.org/zap"
)

// SeedProvider supplies the account set a reset restores
type SeedProvider interface {
	Accounts() []domain.Account
}

// AdminService handles privileged maintenance operations
type AdminService struct {
	Store  domain.LedgerStore
	Seed   SeedProvider
	logger *zap.Logger
}

// NewAdminService creates a new AdminService instance
func NewAdminService(store domain.LedgerStore, seed SeedProvider, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		Store:  store,
		Seed:   seed,
		logger: logger.Named("admin"),
	}
}

// Reset wipes every ledger entry and account and restores the seed set.
// The requester must exist and be an admin; otherwise nothing is touched.
func (s *AdminService) Reset(ctx context.Context, requesterID string) error {
	if err := query.RequireAdmin(ctx, s.Store, requesterID); err != nil {
		s.logger.Warn("reset rejected", zap.String("requester_id", requesterID), zap.Error(err))
		return err
	}

	seed := s.Seed.Accounts()
	if err := s.Store.ResetAll(ctx, seed); err != nil {
		s.logger.Error("reset failed", zap.String("requester_id", requesterID), zap.Error(err))
		return err
	}

	s.logger.Info("data reset", zap.String("requester_id", requesterID), zap.Int("accounts", len(seed)))
	return nil
}
