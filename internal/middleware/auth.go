package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/duosplit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// BillIDKey is the context key for the bill ID named by the session token.
	BillIDKey contextKey = "bill_id"
	// GenerationKey is the context key for the token's bill generation.
	GenerationKey contextKey = "generation"
)

// GetBillID extracts the bill ID from the context.
// Returns empty string if not found.
func GetBillID(ctx context.Context) string {
	billID, _ := ctx.Value(BillIDKey).(string)
	return billID
}

// GetGeneration extracts the bill generation from the context.
// Returns 0 if not found.
func GetGeneration(ctx context.Context) uint64 {
	gen, _ := ctx.Value(GenerationKey).(uint64)
	return gen
}

// WithSession returns ctx carrying the given session claims.
func WithSession(ctx context.Context, billID string, generation uint64) context.Context {
	ctx = context.WithValue(ctx, BillIDKey, billID)
	return context.WithValue(ctx, GenerationKey, generation)
}

// RequireSession returns a middleware that validates session tokens. Procedures
// listed in open are let through without a token.
func RequireSession(tokens *auth.SessionTokens, open ...string) connect.UnaryInterceptorFunc {
	skip := make(map[string]bool, len(open))
	for _, p := range open {
		skip[p] = true
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if skip[req.Spec().Procedure] {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithSession(ctx, claims.BillID, claims.Generation), req)
		}
	}
}
