package auth

import "github.com/vietddude/payroll/internal/core/domain"

// DefaultLoginPath is where unauthenticated callers are sent.
const DefaultLoginPath = "/login"

// DefaultUnauthorizedPath is where authenticated callers lacking the
// required role are sent.
const DefaultUnauthorizedPath = "/unauthorized"

// AuthState is a snapshot of the caller's authentication at decision time.
// It is read fresh on every check; the gate never caches it.
type AuthState struct {
	HasToken  bool
	IsExpired bool
	Role      domain.Role
}

// Requirement describes what a route demands of the caller.
// The zero value means "any authenticated user".
type Requirement struct {
	roles []domain.Role
}

// AnyAuthenticated accepts every signed-in caller regardless of role.
func AnyAuthenticated() Requirement {
	return Requirement{}
}

// RequireRole accepts only callers whose role is in the given set.
func RequireRole(roles ...domain.Role) Requirement {
	return Requirement{roles: roles}
}

// DecisionKind is the outcome of a gate check.
type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirect
)

// Decision is the gate's verdict. Path is set only for redirects.
type Decision struct {
	Kind DecisionKind
	Path string
}

// Allowed reports whether the caller may proceed.
func (d Decision) Allowed() bool {
	return d.Kind == DecisionAllow
}

// Gate decides whether a caller may access a protected route. It holds only
// configuration; checks are pure functions of the inputs and safe to run
// concurrently.
type Gate struct {
	LoginPath        string
	UnauthorizedPath string
}

// NewGate creates a Gate with the default redirect paths.
func NewGate() Gate {
	return Gate{
		LoginPath:        DefaultLoginPath,
		UnauthorizedPath: DefaultUnauthorizedPath,
	}
}

// Check evaluates the access rules in order, first match wins:
// missing token → login, expired token → login, role not in a non-empty
// required set → unauthorized, otherwise allow. Every input combination
// maps to exactly one decision.
func (g Gate) Check(state AuthState, req Requirement) Decision {
	login := g.LoginPath
	if login == "" {
		login = DefaultLoginPath
	}
	unauthorized := g.UnauthorizedPath
	if unauthorized == "" {
		unauthorized = DefaultUnauthorizedPath
	}

	if !state.HasToken {
		return Decision{Kind: DecisionRedirect, Path: login}
	}
	if state.IsExpired {
		return Decision{Kind: DecisionRedirect, Path: login}
	}
	if len(req.roles) > 0 && !containsRole(req.roles, state.Role) {
		return Decision{Kind: DecisionRedirect, Path: unauthorized}
	}
	return Decision{Kind: DecisionAllow}
}

func containsRole(roles []domain.Role, role domain.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
