package httpx

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/auth"
	"github.com/example/go-store-orders/internal/authz"
)

type callerKey struct{}

type Caller struct {
	UserID string
	Role   authz.Role
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// Auth validates bearer tokens and applies the role gate. Each route names
// the single permission it needs, so transitions stay independently gated.
type Auth struct {
	Tokens *auth.TokenService
	Log    *zap.Logger
}

func (a *Auth) Require(perm authz.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
				return
			}
			userID, role, err := a.Tokens.Validate(token)
			if err != nil {
				a.Log.Debug("token rejected", zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
				return
			}
			if !authz.Allowed(role, perm) {
				writeJSON(w, http.StatusForbidden, errorBody{Error: "operation not permitted for role " + string(role)})
				return
			}
			ctx := context.WithValue(r.Context(), callerKey{}, Caller{UserID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
