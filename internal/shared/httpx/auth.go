package httpx

import (
	"context"
	"net/http"
	"strings"

	"travel-service/internal/shared/apperr"
	"travel-service/internal/shared/jwt"
)

type Identity struct {
	UserID      string
	AccountType string
}

type ctxKey string

const identityKey ctxKey = "httpx.identity"

type TokenParser interface {
	Parse(tok string) (*jwt.Claims, error)
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(p TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				WriteError(w, http.StatusUnauthorized, apperr.Unauthorized("missing token"), "missing_bearer")
				return
			}
			c, err := p.Parse(tok)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, apperr.Unauthorized("invalid token"), "invalid_token")
				return
			}
			ctx := WithIdentity(r.Context(), Identity{UserID: c.UserID, AccountType: c.AccountType})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(p TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := BearerToken(r); tok != "" {
				if c, err := p.Parse(tok); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: c.UserID, AccountType: c.AccountType}))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserFromCtx(r *http.Request) (Identity, error) {
	id, _ := r.Context().Value(identityKey).(Identity)
	if id.UserID == "" {
		return Identity{}, apperr.Unauthorized("authentication required")
	}
	return id, nil
}
