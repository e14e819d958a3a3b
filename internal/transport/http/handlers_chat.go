package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"bankbuddy/internal/platform/middleware"
	"bankbuddy/internal/transport/http/shared"
	id "bankbuddy/pkg/domain"
	dErrors "bankbuddy/pkg/domain-errors"
)

// ChatAssistant defines the interface for the conversational entrypoint.
type ChatAssistant interface {
	Respond(ctx context.Context, caller id.AccountID, query string) string
}

// ChatHandler exposes the free-text assistant endpoint.
type ChatHandler struct {
	logger    *slog.Logger
	assistant ChatAssistant
}

func NewChatHandler(assistant ChatAssistant, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{logger: logger, assistant: assistant}
}

// Register registers the chat routes with the chi router.
func (h *ChatHandler) Register(r chi.Router) {
	r.Post("/v1/chat", h.handleChat)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
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

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid chat request",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "message must not be empty"))
		return
	}

	reply := h.assistant.Respond(ctx, caller, req.Message)
	shared.WriteJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// callerFromContext reads the authenticated account id stored by RequireAuth.
func callerFromContext(ctx context.Context) (id.AccountID, error) {
	raw := middleware.GetAccountID(ctx)
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	caller, err := id.ParseAccountID(raw)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "authentication context error")
	}
	return caller, nil
}
