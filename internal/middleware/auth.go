package middleware

import (
	"context"
	"net/http"

	"github.com/margoul1Malin/lda/internal/auth"
	"github.com/margoul1Malin/lda/internal/pkg/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// AdminClaimsKey is the context key for the authenticated admin's
	// token claims.
	AdminClaimsKey contextKey = "admin_claims"
)

// RequireAdmin returns a middleware that rejects requests without a
// valid admin bearer token. The rejection is a uniform 401 regardless
// of whether the token is missing, expired, malformed, or forged.
func RequireAdmin(issuer *auth.TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				response.Unauthorized(w)
				return
			}

			claims := issuer.Verify(token)
			if claims == nil {
				response.Unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminClaims retrieves the authenticated admin's claims from
// context, or nil when the request was not admin-authenticated.
func GetAdminClaims(ctx context.Context) *auth.Claims {
	if v := ctx.Value(AdminClaimsKey); v != nil {
		return v.(*auth.Claims)
	}
	return nil
}
