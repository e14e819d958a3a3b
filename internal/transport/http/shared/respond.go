// Package shared holds the response helpers every handler uses so error
// envelopes stay identical across endpoints.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"bankbuddy/internal/bank/models"
	dErrors "bankbuddy/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates domain failures into HTTP responses. Denials keep
// their reason code and user message; coded errors map through
// ToHTTPStatus; anything else becomes an opaque 500.
func WriteError(w http.ResponseWriter, err error) {
	if denial, ok := models.AsDenial(err); ok {
		WriteJSON(w, denial.Reason.HTTPStatus(), ErrorResponse{
			Error:   string(denial.Reason),
			Message: denial.Message,
		})
		return
	}

	var coded *dErrors.Error
	if errors.As(err, &coded) {
		WriteJSON(w, dErrors.ToHTTPStatus(coded.Code), ErrorResponse{
			Error:   string(coded.Code),
			Message: coded.Message,
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   string(dErrors.CodeInternal),
		Message: "internal error",
	})
}
