package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankbuddy/internal/bank/models"
	"bankbuddy/internal/platform/middleware"
	"bankbuddy/internal/transport/http/shared"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
)

// TransferService defines the interface for structured transfer execution.
type TransferService interface {
	Execute(ctx context.Context, caller id.AccountID, req models.TransferRequest) (*models.TransferResult, error)
}

// FraudService defines the interface for fraud reporting.
type FraudService interface {
	Report(ctx context.Context, reporter id.AccountID, address id.PaymentAddress) (string, error)
}

// TransferHandler exposes the structured transfer and fraud-report endpoints.
type TransferHandler struct {
	logger    *slog.Logger
	transfers TransferService
	fraud     FraudService
}

func NewTransferHandler(transfers TransferService, fraud FraudService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{logger: logger, transfers: transfers, fraud: fraud}
}

// Register registers the transfer routes with the chi router.
func (h *TransferHandler) Register(r chi.Router) {
	r.Post("/v1/transfer", h.handleTransfer)
	r.Post("/v1/fraud/report", h.handleFraudReport)
}

type transferRequest struct {
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	PIN       string `json:"pin"`
}

type transferResponse struct {
	TransactionID string `json:"transaction_id"`
	NewBalance    int64  `json:"new_balance"`
	Message       string `json:"message"`
}

func (h *TransferHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
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

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid transfer request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	domReq, err := buildTransferRequest(req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.transfers.Execute(ctx, caller, domReq)
	if err != nil {
		if _, denied := models.AsDenial(err); !denied {
			h.logger.ErrorContext(ctx, "transfer failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, transferResponse{
		TransactionID: result.TransactionID.String(),
		NewBalance:    int64(result.NewBalance),
		Message:       result.Message,
	})
}

// buildTransferRequest validates the wire form into domain values. Failures
// surface as malformed-request denials so structured and free-text callers
// see the same reason code.
func buildTransferRequest(req transferRequest) (models.TransferRequest, error) {
	amount, err := id.ParseAmount(req.Amount)
	if err != nil {
		return models.TransferRequest{}, models.DenyWrap(err, models.ReasonMalformedRequest, "amount must be a positive whole number of rupees")
	}
	recipient, err := id.ParsePaymentAddress(req.Recipient)
	if err != nil {
		return models.TransferRequest{}, models.DenyWrap(err, models.ReasonMalformedRequest, "recipient must be a valid payment address")
	}
	if req.PIN == "" {
		return models.TransferRequest{}, models.Deny(models.ReasonMalformedRequest, "pin is required")
	}
	return models.TransferRequest{Amount: amount, Recipient: recipient, PIN: req.PIN}, nil
}

type fraudReportRequest struct {
	Address string `json:"address"`
}

type fraudReportResponse struct {
	Message string `json:"message"`
}

func (h *TransferHandler) handleFraudReport(w http.ResponseWriter, r *http.Request) {
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

	var req fraudReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid fraud report request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	address, err := id.ParsePaymentAddress(req.Address)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "address must be a valid payment address"))
		return
	}

	message, err := h.fraud.Report(ctx, caller, address)
	if err != nil {
		if _, denied := models.AsDenial(err); !denied {
			h.logger.ErrorContext(ctx, "fraud report failed",
				"request_id", requestID,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, fraudReportResponse{Message: message})
}
