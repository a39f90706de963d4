package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/calram/skirmish/internal/api/apierr"
	"github.com/calram/skirmish/internal/model"
)

type contextKey string

const (
	addressContextKey contextKey = "address"
	tokenContextKey   contextKey = "token"
)

// AddressHeader carries the caller's account address. Capability tokens prove
// possession; the address is the identity owner tokens are bound to.
const AddressHeader = "X-Account-Address"

// Identity requires the caller to present an account address and stashes it,
// along with any bearer capability token, in the request context.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr := r.Header.Get(AddressHeader)
			if addr == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, addressContextKey, model.Address(addr))
			if token := extractToken(r); token != "" {
				ctx = context.WithValue(ctx, tokenContextKey, token)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireToken rejects requests without a bearer capability token. Which
// operations the token actually authorizes is decided by the service layer.
func RequireToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetToken(r.Context()) == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken pulls the capability token from the Authorization header
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetAddress returns the caller address from the request context
func GetAddress(ctx context.Context) model.Address {
	addr, _ := ctx.Value(addressContextKey).(model.Address)
	return addr
}

// GetToken returns the bearer capability token from the request context, or
// the empty string when none was presented
func GetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// MustGetAddress returns the caller address or panics
func MustGetAddress(ctx context.Context) model.Address {
	addr := GetAddress(ctx)
	if addr == "" {
		panic("no address in context - identity middleware not applied?")
	}
	return addr
}
