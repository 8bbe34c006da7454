package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const serviceName = "minibank.v1.BankService"

func fullMethod(method string) string {
	return "/" + serviceName + "/" + method
}

// Account is the wire form of an account; it never carries the secret
type Account struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Balance string `json:"balance"`
}

// Transaction is the wire form of a ledger entry
type Transaction struct {
	Id              string                 `json:"id"`
	FromAccountId   string                 `json:"from_account_id"`
	ToAccountId     string                 `json:"to_account_id"`
	FromAccountName string                 `json:"from_account_name"`
	ToAccountName   string                 `json:"to_account_name"`
	Amount          string                 `json:"amount"`
	Timestamp       *timestamppb.Timestamp `json:"timestamp"`
}

type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type LoginResponse struct {
	Token     string                 `json:"token"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at"`
	Account   *Account               `json:"account"`
}

type ListAccountsRequest struct{}

type ListAccountsResponse struct {
	Accounts []*Account `json:"accounts"`
}

type GetAccountRequest struct {
	AccountId string `json:"account_id"`
}

type GetAccountResponse struct {
	Account *Account `json:"account"`
}

type TransferRequest struct {
	FromAccountId string `json:"from_account_id"`
	ToAccountId   string `json:"to_account_id"`
	Amount        string `json:"amount"`
}

type TransferResponse struct {
	Transaction     *Transaction `json:"transaction"`
	UpdatedAccounts []*Account   `json:"updated_accounts"`
}

// ListMyTransactionsRequest defaults AccountId to the caller when empty
type ListMyTransactionsRequest struct {
	AccountId string `json:"account_id,omitempty"`
}

type ListAllTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type GetTransactionRequest struct {
	TransactionId string `json:"transaction_id"`
}

type GetTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ResetDataRequest struct{}

type ResetDataResponse struct {
	Message string `json:"message"`
}

// BankServiceServer is the server API for the BankService service
type BankServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	ListMyTransactions(context.Context, *ListMyTransactionsRequest) (*ListTransactionsResponse, error)
	ListAllTransactions(context.Context, *ListAllTransactionsRequest) (*ListTransactionsResponse, error)
	GetTransaction(context.Context, *GetTransactionRequest) (*GetTransactionResponse, error)
	ResetData(context.Context, *ResetDataRequest) (*ResetDataResponse, error)
}

// unaryHandler adapts a typed BankServiceServer method to a grpc.MethodHandler
func unaryHandler[Req, Resp any](method string, call func(BankServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BankServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BankServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BankService_ServiceDesc is the grpc.ServiceDesc for the BankService service
var BankService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*BankServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler("Login", BankServiceServer.Login)},
		{MethodName: "ListAccounts", Handler: unaryHandler("ListAccounts", BankServiceServer.ListAccounts)},
		{MethodName: "GetAccount", Handler: unaryHandler("GetAccount", BankServiceServer.GetAccount)},
		{MethodName: "Transfer", Handler: unaryHandler("Transfer", BankServiceServer.Transfer)},
		{MethodName: "ListMyTransactions", Handler: unaryHandler("ListMyTransactions", BankServiceServer.ListMyTransactions)},
		{MethodName: "ListAllTransactions", Handler: unaryHandler("ListAllTransactions", BankServiceServer.ListAllTransactions)},
		{MethodName: "GetTransaction", Handler: unaryHandler("GetTransaction", BankServiceServer.GetTransaction)},
		{MethodName: "ResetData", Handler: unaryHandler("ResetData", BankServiceServer.ResetData)},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterBankServiceServer registers the service implementation with a gRPC server
func RegisterBankServiceServer(s grpc.ServiceRegistrar, srv BankServiceServer) {
	s.RegisterService(&BankService_ServiceDesc, srv)
}

// BankServiceClient is the client API for the BankService service.
// Every call is sent with the JSON content-subtype.
type BankServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBankServiceClient creates a client over an existing connection
func NewBankServiceClient(cc grpc.ClientConnInterface) *BankServiceClient {
	return &BankServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *BankServiceClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BankServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c, "Login", in, opts)
}

func (c *BankServiceClient) ListAccounts(ctx context.Context, in *ListAccountsRequest, opts ...grpc.CallOption) (*ListAccountsResponse, error) {
	return invoke[ListAccountsResponse](ctx, c, "ListAccounts", in, opts)
}

func (c *BankServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error) {
	return invoke[GetAccountResponse](ctx, c, "GetAccount", in, opts)
}

func (c *BankServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	return invoke[TransferResponse](ctx, c, "Transfer", in, opts)
}

func (c *BankServiceClient) ListMyTransactions(ctx context.Context, in *ListMyTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c, "ListMyTransactions", in, opts)
}

func (c *BankServiceClient) ListAllTransactions(ctx context.Context, in *ListAllTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c, "ListAllTransactions", in, opts)
}

func (c *BankServiceClient) GetTransaction(ctx context.Context, in *GetTransactionRequest, opts ...grpc.CallOption) (*GetTransactionResponse, error) {
	return invoke[GetTransactionResponse](ctx, c, "GetTransaction", in, opts)
}

func (c *BankServiceClient) ResetData(ctx context.Context, in *ResetDataRequest, opts ...grpc.CallOption) (*ResetDataResponse, error) {
	return invoke[ResetDataResponse](ctx, c, "ResetData", in, opts)
}
