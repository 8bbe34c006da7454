package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/simaogato/minibank-backend/internal/token"
	"github.com/simaogato/minibank-backend/internal/usecase/admin"
	"github.com/simaogato/minibank-backend/internal/usecase/auth"
	"github.com/simaogato/minibank-backend/internal/usecase/query"
	"github.com/simaogato/minibank-backend/internal/usecase/transfer"
)

const maxBodyBytes = 1 << 20

// TokenIssuer signs a bearer token for an authenticated account
type TokenIssuer interface {
	Issue(account *domain.Account) (string, time.Time, error)
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the JSON API
type Handler struct {
	AuthService     *auth.AuthService
	TransferService *transfer.TransferService
	QueryService    *query.QueryService
	AdminService    *admin.AdminService
	Tokens          TokenIssuer
	Pinger          Pinger
}

// NewHandler creates a new REST handler. pinger may be nil.
func NewHandler(
	authService *auth.AuthService,
	transferService *transfer.TransferService,
	queryService *query.QueryService,
	adminService *admin.AdminService,
	tokens TokenIssuer,
	pinger Pinger,
) *Handler {
	return &Handler{
		AuthService:     authService,
		TransferService: transferService,
		QueryService:    queryService,
		AdminService:    adminService,
		Tokens:          tokens,
		Pinger:          pinger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      *domain.Account `json:"user"`
}

type transferRequest struct {
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

type transferResponse struct {
	Transaction  domain.LedgerEntry `json:"transaction"`
	UpdatedUsers []domain.Account   `json:"updatedUsers"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := token.FromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "missing credentials")
		return "", false
	}
	return claims.AccountID, true
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Pinger != nil {
		if err := h.Pinger.PingContext(r.Context()); err != nil {
			Error(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
	}
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login handles POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decode(w, r, &in) {
		return
	}

	account, err := h.AuthService.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnauthorized {
			Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		DomainError(w, err)
		return
	}

	signed, expiresAt, err := h.Tokens.Issue(account)
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	JSON(w, http.StatusOK, loginResponse{Token: signed, ExpiresAt: expiresAt, User: account})
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.QueryService.ListAccounts(r.Context())
	if err != nil {
		DomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, accounts)
}

// ListTransactions handles GET /api/transactions?userId=
// Without userId the caller's own history is returned.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	entries, err := h.QueryService.ListEntriesForRequester(r.Context(), caller, r.URL.Query().Get("userId"))
	if err != nil {
		DomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, entries)
}

// ListAllTransactions handles GET /api/transactions/all
func (h *Handler) ListAllTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	entries, err := h.QueryService.ListAllEntries(r.Context(), caller)
	if err != nil {
		DomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, entries)
}

// GetTransaction handles GET /api/transactions/{id}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	entry, err := h.QueryService.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		DomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, entry)
}

// Transfer handles POST /api/transfer
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var in transferRequest
	if !decode(w, r, &in) {
		return
	}
	if in.FromUserID == "" {
		in.FromUserID = caller
	}

	result, err := h.TransferService.Execute(r.Context(), transfer.TransferInput{
		RequesterID:   caller,
		SourceID:      in.FromUserID,
		DestinationID: in.ToUserID,
		Amount:        in.Amount,
	})
	if err != nil {
		DomainError(w, err)
		return
	}

	JSON(w, http.StatusOK, transferResponse{
		Transaction:  result.Entry,
		UpdatedUsers: []domain.Account{result.Source, result.Destination},
	})
}

// ResetData handles POST /api/admin/reset
func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.AdminService.Reset(r.Context(), caller); err != nil {
		DomainError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Data reset successfully"})
}
