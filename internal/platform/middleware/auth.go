package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator defines the interface for validating caller identity tokens.
type TokenValidator interface {
	Validate(tokenString string) (*IdentityClaims, error)
}

// IdentityClaims is what the middleware needs out of a validated token.
type IdentityClaims struct {
	AccountID string
}

type contextKeyAccountID struct{}

// GetAccountID retrieves the authenticated account id from the context.
func GetAccountID(ctx context.Context) string {
	accountID, ok := ctx.Value(contextKeyAccountID{}).(string)
	if !ok {
		return ""
	}
	return accountID
}

// WithAccountID stores an account id in context. Exported for tests.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, contextKeyAccountID{}, accountID)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's account id in context for handlers.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := validator.Validate(token)
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "token validation failed",
						"request_id", GetRequestID(r.Context()),
						"error", err.Error(),
					)
				}
				writeUnauthorized(w)
				return
			}

			ctx := WithAccountID(r.Context(), claims.AccountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
