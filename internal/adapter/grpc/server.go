package grpc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/simaogato/minibank-backend/internal/token"
	"github.com/simaogato/minibank-backend/internal/usecase/admin"
	"github.com/simaogato/minibank-backend/internal/usecase/auth"
	"github.com/simaogato/minibank-backend/internal/usecase/query"
	"github.com/simaogato/minibank-backend/internal/usecase/transfer"
)

// TokenIssuer signs a bearer token for an authenticated account
type TokenIssuer interface {
	Issue(account *domain.Account) (string, time.Time, error)
}

// Server implements the BankService gRPC server
type Server struct {
	AuthService     *auth.AuthService
	TransferService *transfer.TransferService
	QueryService    *query.QueryService
	AdminService    *admin.AdminService
	Tokens          TokenIssuer
}

// NewServer creates a new gRPC server instance
func NewServer(
	authService *auth.AuthService,
	transferService *transfer.TransferService,
	queryService *query.QueryService,
	adminService *admin.AdminService,
	tokens TokenIssuer,
) *Server {
	return &Server{
		AuthService:     authService,
		TransferService: transferService,
		QueryService:    queryService,
		AdminService:    adminService,
		Tokens:          tokens,
	}
}

// PublicMethods lists the methods AuthInterceptor lets through unauthenticated
func PublicMethods() []string {
	return []string{fullMethod("Login")}
}

// requesterID returns the account ID of the verified caller
func requesterID(ctx context.Context) (string, error) {
	claims, ok := token.FromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing credentials")
	}
	return claims.AccountID, nil
}

// Login handles the Login RPC
func (s *Server) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	account, err := s.AuthService.Authenticate(ctx, req.Email, req.Secret)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnauthorized {
			return nil, status.Error(codes.Unauthenticated, "invalid credentials")
		}
		return nil, mapError(err)
	}

	signed, expiresAt, err := s.Tokens.Issue(account)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to issue token: %v", err)
	}

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: timestamppb.New(expiresAt),
		Account:   domainAccountToProto(account),
	}, nil
}

// ListAccounts handles the ListAccounts RPC
func (s *Server) ListAccounts(ctx context.Context, req *ListAccountsRequest) (*ListAccountsResponse, error) {
	accounts, err := s.QueryService.ListAccounts(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	protoAccounts := make([]*Account, 0, len(accounts))
	for _, account := range accounts {
		protoAccounts = append(protoAccounts, domainAccountToProto(account))
	}
	return &ListAccountsResponse{Accounts: protoAccounts}, nil
}

// GetAccount handles the GetAccount RPC
func (s *Server) GetAccount(ctx context.Context, req *GetAccountRequest) (*GetAccountResponse, error) {
	account, err := s.QueryService.GetAccount(ctx, req.AccountId)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetAccountResponse{Account: domainAccountToProto(account)}, nil
}

// Transfer handles the Transfer RPC
// The source defaults to the caller and may not be anyone else.
func (s *Server) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	caller, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	// Parse amount from string to decimal
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
	}

	source := req.FromAccountId
	if source == "" {
		source = caller
	}

	result, err := s.TransferService.Execute(ctx, transfer.TransferInput{
		RequesterID:   caller,
		SourceID:      source,
		DestinationID: req.ToAccountId,
		Amount:        amount,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &TransferResponse{
		Transaction: domainEntryToProto(&result.Entry),
		UpdatedAccounts: []*Account{
			domainAccountToProto(&result.Source),
			domainAccountToProto(&result.Destination),
		},
	}, nil
}

// ListMyTransactions handles the ListMyTransactions RPC
func (s *Server) ListMyTransactions(ctx context.Context, req *ListMyTransactionsRequest) (*ListTransactionsResponse, error) {
	caller, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.QueryService.ListEntriesForRequester(ctx, caller, req.AccountId)
	if err != nil {
		return nil, mapError(err)
	}
	return &ListTransactionsResponse{Transactions: domainEntriesToProto(entries)}, nil
}

// ListAllTransactions handles the ListAllTransactions RPC
func (s *Server) ListAllTransactions(ctx context.Context, req *ListAllTransactionsRequest) (*ListTransactionsResponse, error) {
	caller, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.QueryService.ListAllEntries(ctx, caller)
	if err != nil {
		return nil, mapError(err)
	}
	return &ListTransactionsResponse{Transactions: domainEntriesToProto(entries)}, nil
}

// GetTransaction handles the GetTransaction RPC
func (s *Server) GetTransaction(ctx context.Context, req *GetTransactionRequest) (*GetTransactionResponse, error) {
	entry, err := s.QueryService.GetEntry(ctx, req.TransactionId)
	if err != nil {
		return nil, mapError(err)
	}
	return &GetTransactionResponse{Transaction: domainEntryToProto(entry)}, nil
}

// ResetData handles the ResetData RPC
func (s *Server) ResetData(ctx context.Context, req *ResetDataRequest) (*ResetDataResponse, error) {
	caller, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.AdminService.Reset(ctx, caller); err != nil {
		return nil, mapError(err)
	}
	return &ResetDataResponse{Message: "Data reset successfully"}, nil
}

// domainAccountToProto converts a domain Account to its wire message
func domainAccountToProto(account *domain.Account) *Account {
	return &Account{
		Id:      account.ID.String(),
		Name:    account.Name,
		Email:   account.Email,
		Role:    string(account.Role),
		Balance: account.Balance.StringFixed(domain.AmountScale),
	}
}

// domainEntryToProto converts a domain LedgerEntry to its wire message
func domainEntryToProto(entry *domain.LedgerEntry) *Transaction {
	return &Transaction{
		Id:              entry.ID.String(),
		FromAccountId:   entry.SourceID.String(),
		ToAccountId:     entry.DestinationID.String(),
		FromAccountName: entry.SourceName,
		ToAccountName:   entry.DestinationName,
		Amount:          entry.Amount.StringFixed(domain.AmountScale),
		Timestamp:       timestamppb.New(entry.CreatedAt),
	}
}

func domainEntriesToProto(entries []*domain.LedgerEntry) []*Transaction {
	out := make([]*Transaction, 0, len(entries))
	for _, entry := range entries {
		out = append(out, domainEntryToProto(entry))
	}
	return out
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch domain.KindOf(err) {
	case domain.KindAccountNotFound, domain.KindEntryNotFound:
		return status.Error(codes.NotFound, err.Error())
	case domain.KindInvalidAmount, domain.KindInvalidTransfer:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.KindInsufficientBalance:
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.KindUnauthorized:
		return status.Error(codes.PermissionDenied, err.Error())
	case domain.KindStoreUnavailable:
		return status.Error(codes.Unavailable, err.Error())
	default:
		// Default to Internal error for unknown errors
		return status.Error(codes.Internal, err.Error())
	}
}
