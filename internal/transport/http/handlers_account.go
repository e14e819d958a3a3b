package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/platform/middleware"
	"bankbuddy/internal/transport/http/shared"
	id "bankbuddy/pkg/domain"
)

// AccountService defines the interface for account read operations.
type AccountService interface {
	Balance(ctx context.Context, caller id.AccountID) (id.Amount, error)
	Transactions(ctx context.Context, caller id.AccountID) ([]models.Transaction, error)
	EmailStatement(ctx context.Context, caller id.AccountID) (string, error)
}

// AccountHandler exposes balance, history, and statement endpoints for the
// authenticated account.
type AccountHandler struct {
	logger   *slog.Logger
	accounts AccountService
}

func NewAccountHandler(accounts AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{logger: logger, accounts: accounts}
}

// Register registers the account routes with the chi router.
func (h *AccountHandler) Register(r chi.Router) {
	r.Get("/v1/balance", h.handleBalance)
	r.Get("/v1/transactions", h.handleTransactions)
	r.Post("/v1/statement", h.handleStatement)
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (h *AccountHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := callerFromContext(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "account id missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	balance, err := h.accounts.Balance(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, balanceResponse{Balance: int64(balance)})
}

type transactionEntry struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	Counterparty string    `json:"counterparty"`
	CreatedAt    time.Time `json:"created_at"`
}

type transactionsResponse struct {
	Transactions []transactionEntry `json:"transactions"`
}

func (h *AccountHandler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := callerFromContext(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "account id missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	entries, err := h.accounts.Transactions(ctx, caller)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := transactionsResponse{Transactions: make([]transactionEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Transactions = append(resp.Transactions, transactionEntry{
			ID:           e.ID.String(),
			Kind:         string(e.Kind),
			Amount:       int64(e.Amount),
			Counterparty: e.Counterparty.String(),
			CreatedAt:    e.CreatedAt,
		})
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

type statementResponse struct {
	Message string `json:"message"`
}

func (h *AccountHandler) handleStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	caller, err := callerFromContext(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "account id missing from context despite auth middleware",
			"request_id", requestID,
		)
		shared.WriteError(w, err)
		return
	}

	message, err := h.accounts.EmailStatement(ctx, caller)
	if err != nil {
		h.logger.WarnContext(ctx, "statement delivery failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, statementResponse{Message: message})
}
