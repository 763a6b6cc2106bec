package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/domain"
	"github.com/vietddude/payroll/internal/infra/redis"
	"github.com/vietddude/payroll/internal/metrics"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller, stored on the request context by
// Authenticator.
type Identity struct {
	UserID string
	Role   domain.Role
	Token  string
	Claims *auth.Claims
}

// IdentityFrom returns the caller identity set by Authenticator.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// BearerToken extracts the token from an Authorization header. Empty when
// the header is missing or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticator builds an AuthState from the bearer token, consults the
// access gate, and maps its decisions onto the API surface: redirect-to-login
// becomes 401, redirect-to-unauthorized becomes 403. The suggested path
// travels in the error envelope so interactive clients can navigate.
type Authenticator struct {
	Issuer   *auth.TokenIssuer
	Gate     auth.Gate
	Denylist redis.Denylist
	Logger   *slog.Logger
}

// Require returns a middleware enforcing the given role requirement.
func (a *Authenticator) Require(req auth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			state, claims := a.Issuer.StateFor(token)

			if state.HasToken && !state.IsExpired && a.Denylist != nil {
				revoked, err := a.Denylist.IsRevoked(r.Context(), token)
				if err != nil {
					a.Logger.Warn("denylist check failed", "error", err)
				} else if revoked {
					// Revoked sessions behave exactly like expired ones.
					state.IsExpired = true
				}
			}

			decision := a.Gate.Check(state, req)
			if decision.Allowed() {
				identity := &Identity{
					UserID: claims.Subject,
					Role:   claims.Role,
					Token:  token,
					Claims: claims,
				}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
				return
			}

			if decision.Path == a.Gate.UnauthorizedPath && a.Gate.UnauthorizedPath != "" {
				metrics.AccessDenied.WithLabelValues("role").Inc()
				WriteErrorRedirect(w, http.StatusForbidden, CodeForbidden,
					"insufficient role", decision.Path)
				return
			}
			metrics.AccessDenied.WithLabelValues("unauthenticated").Inc()
			WriteErrorRedirect(w, http.StatusUnauthorized, CodeUnauthorized,
				"authentication required", decision.Path)
		})
	}
}
