package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/simaogato/minibank-backend/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestAuthInterceptor(t *testing.T) {
	tokens, err := token.NewManager("test-secret", "minibank", time.Hour)
	require.NoError(t, err)
	accountID := uuid.New()
	validToken, _, err := tokens.Issue(&domain.Account{ID: accountID, Role: domain.RoleUser})
	require.NoError(t, err)

	interceptor := AuthInterceptor(tokens, fullMethod("Login"))

	tests := []struct {
		name           string
		ctx            context.Context
		method         string
		handlerCalled  bool
		expectedCode   codes.Code
		expectedErrMsg string
	}{
		{
			name: "Valid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer "+validToken),
			),
			method:         fullMethod("ListAccounts"),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
		{
			name: "Invalid Token",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", "Bearer wrong-token"),
			),
			method:         fullMethod("ListAccounts"),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "invalid token",
		},
		{
			name: "Missing Bearer Scheme",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("authorization", validToken),
			),
			method:         fullMethod("ListAccounts"),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "Bearer scheme",
		},
		{
			name:           "Missing Token",
			ctx:            context.Background(),
			method:         fullMethod("Transfer"),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing metadata",
		},
		{
			name: "Missing Authorization Header",
			ctx: metadata.NewIncomingContext(
				context.Background(),
				metadata.Pairs("other-header", "value"),
			),
			method:         fullMethod("Transfer"),
			handlerCalled:  false,
			expectedCode:   codes.Unauthenticated,
			expectedErrMsg: "missing authorization header",
		},
		{
			name:           "Public Method Skips Check",
			ctx:            context.Background(),
			method:         fullMethod("Login"),
			handlerCalled:  true,
			expectedCode:   codes.OK,
			expectedErrMsg: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				handlerCalled = true
				return "success", nil
			}

			info := &grpc.UnaryServerInfo{
				FullMethod: tt.method,
			}

			resp, err := interceptor(tt.ctx, "test-request", info, handler)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")

			if tt.expectedCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "success", resp)
			} else {
				assert.Error(t, err)
				st, ok := status.FromError(err)
				assert.True(t, ok, "error should be a gRPC status")
				assert.Equal(t, tt.expectedCode, st.Code())
				assert.Contains(t, st.Message(), tt.expectedErrMsg)
			}
		})
	}
}

func TestAuthInterceptor_StoresClaims(t *testing.T) {
	tokens, err := token.NewManager("test-secret", "minibank", time.Hour)
	require.NoError(t, err)
	accountID := uuid.New()
	signed, _, err := tokens.Issue(&domain.Account{ID: accountID, Role: domain.RoleAdmin})
	require.NoError(t, err)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+signed))
	var got *token.Claims
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = token.FromContext(ctx)
		return nil, nil
	}

	_, err = AuthInterceptor(tokens)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: fullMethod("ResetData")}, handler)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, accountID.String(), got.AccountID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestLoggingInterceptor(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	interceptor := LoggingInterceptor(zap.New(core))
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod("Transfer")}

	_, _ = interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, nil
	})
	_, _ = interceptor(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.FailedPrecondition, "insufficient balance")
	})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "FailedPrecondition", entries[1].ContextMap()["code"])
}
