//go:build integration

package main

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/simaogato/minibank-backend/internal/adapter/grpc"
	"github.com/simaogato/minibank-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/minibank-backend/internal/usecase/seeder"
)

// These tests run against a live server started with STORE_DRIVER=postgres
var (
	db         *postgres.DB
	grpcClient *grpcadapter.BankServiceClient
	grpcConn   *grpc.ClientConn
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	// 1. Connect to Database
	var err error
	db, err = postgres.NewDB(getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	// 2. Connect to gRPC Server
	grpcConn, err = grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}
	grpcClient = grpcadapter.NewBankServiceClient(grpcConn)

	code := m.Run()

	grpcConn.Close()
	db.Close()
	os.Exit(code)
}

func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=minibank sslmode=disable"
}

func getGRPCAddress() string {
	if addr := os.Getenv("GRPC_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:8080"
}

func seedSecret() string {
	if secret := os.Getenv("SEED_SECRET"); secret != "" {
		return secret
	}
	return "password123"
}

// login authenticates and returns a context carrying the bearer token
func login(t *testing.T, email string) context.Context {
	t.Helper()
	resp, err := grpcClient.Login(context.Background(), &grpcadapter.LoginRequest{Email: email, Secret: seedSecret()})
	require.NoError(t, err, "login as %s", email)
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+resp.Token)
}

func dbBalance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var raw string
	err := db.QueryRowContext(context.Background(), `SELECT balance FROM accounts WHERE id = $1`, id).Scan(&raw)
	require.NoError(t, err)
	balance, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return balance
}

func entryCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM ledger_entries`).Scan(&n))
	return n
}

func assertCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected gRPC status error, got %v", err)
	assert.Equal(t, want, st.Code(), st.Message())
}

// TestEndToEndFlow covers reset, transfer, history and the rejection paths
func TestEndToEndFlow(t *testing.T) {
	adminCtx := login(t, "admin@example.com")
	aliceCtx := login(t, "alice@example.com")

	// Step A: start from the seed set
	_, err := grpcClient.ResetData(adminCtx, &grpcadapter.ResetDataRequest{})
	require.NoError(t, err)
	startAlice := dbBalance(t, seeder.ALICE_ID)
	startBob := dbBalance(t, seeder.BOB_ID)
	require.Equal(t, 0, entryCount(t))

	// Step B: Alice pays Bob
	transferResp, err := grpcClient.Transfer(aliceCtx, &grpcadapter.TransferRequest{
		ToAccountId: seeder.BOB_ID.String(),
		Amount:      "30.50",
	})
	require.NoError(t, err)
	require.Len(t, transferResp.UpdatedAccounts, 2)
	assert.Equal(t, seeder.ALICE_ID.String(), transferResp.Transaction.FromAccountId)
	assert.Equal(t, "Bob Smith", transferResp.Transaction.ToAccountName)

	amount := decimal.RequireFromString("30.50")
	assert.True(t, dbBalance(t, seeder.ALICE_ID).Equal(startAlice.Sub(amount)))
	assert.True(t, dbBalance(t, seeder.BOB_ID).Equal(startBob.Add(amount)))
	assert.Equal(t, 1, entryCount(t))

	// Step C: the entry shows up in Alice's history
	history, err := grpcClient.ListMyTransactions(aliceCtx, &grpcadapter.ListMyTransactionsRequest{})
	require.NoError(t, err)
	require.Len(t, history.Transactions, 1)
	assert.Equal(t, transferResp.Transaction.Id, history.Transactions[0].Id)

	got, err := grpcClient.GetTransaction(aliceCtx, &grpcadapter.GetTransactionRequest{TransactionId: transferResp.Transaction.Id})
	require.NoError(t, err)
	assert.Equal(t, "30.50", got.Transaction.Amount)

	// Step D: rejections leave the store untouched
	_, err = grpcClient.Transfer(aliceCtx, &grpcadapter.TransferRequest{ToAccountId: seeder.BOB_ID.String(), Amount: "1000000"})
	assertCode(t, err, codes.FailedPrecondition)
	_, err = grpcClient.Transfer(aliceCtx, &grpcadapter.TransferRequest{ToAccountId: seeder.ALICE_ID.String(), Amount: "1"})
	assertCode(t, err, codes.InvalidArgument)
	_, err = grpcClient.Transfer(aliceCtx, &grpcadapter.TransferRequest{ToAccountId: uuid.NewString(), Amount: "1"})
	assertCode(t, err, codes.NotFound)
	_, err = grpcClient.Transfer(aliceCtx, &grpcadapter.TransferRequest{
		FromAccountId: seeder.BOB_ID.String(),
		ToAccountId:   seeder.ALICE_ID.String(),
		Amount:        "1",
	})
	assertCode(t, err, codes.PermissionDenied)
	_, err = grpcClient.ListAllTransactions(aliceCtx, &grpcadapter.ListAllTransactionsRequest{})
	assertCode(t, err, codes.PermissionDenied)
	assert.Equal(t, 1, entryCount(t))

	// Step E: admin reset restores the seed balances
	_, err = grpcClient.ResetData(adminCtx, &grpcadapter.ResetDataRequest{})
	require.NoError(t, err)
	assert.True(t, dbBalance(t, seeder.ALICE_ID).Equal(startAlice))
	assert.True(t, dbBalance(t, seeder.BOB_ID).Equal(startBob))
	assert.Equal(t, 0, entryCount(t))
}

func TestUnauthenticatedCallsAreRejected(t *testing.T) {
	_, err := grpcClient.ListAccounts(context.Background(), &grpcadapter.ListAccountsRequest{})
	assertCode(t, err, codes.Unauthenticated)

	_, err = grpcClient.Login(context.Background(), &grpcadapter.LoginRequest{Email: "alice@example.com", Secret: "wrong"})
	assertCode(t, err, codes.Unauthenticated)
}
