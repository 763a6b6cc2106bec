package auth

import (
	"testing"

	"github.com/vietddude/payroll/internal/core/domain"
)

func TestGateCheck(t *testing.T) {
	gate := NewGate()

	tests := []struct {
		name     string
		state    AuthState
		req      Requirement
		wantKind DecisionKind
		wantPath string
	}{
		{
			name:     "no token redirects to login",
			state:    AuthState{},
			req:      AnyAuthenticated(),
			wantKind: DecisionRedirect,
			wantPath: "/login",
		},
		{
			name:     "no token with role requirement still goes to login",
			state:    AuthState{Role: domain.RoleEmployee},
			req:      RequireRole(domain.RoleAdmin),
			wantKind: DecisionRedirect,
			wantPath: "/login",
		},
		{
			name:     "expired token redirects to login",
			state:    AuthState{HasToken: true, IsExpired: true, Role: domain.RoleAdmin},
			req:      RequireRole(domain.RoleAdmin),
			wantKind: DecisionRedirect,
			wantPath: "/login",
		},
		{
			name:     "valid token without role requirement is allowed",
			state:    AuthState{HasToken: true, Role: domain.RoleEmployee},
			req:      AnyAuthenticated(),
			wantKind: DecisionAllow,
		},
		{
			name:     "role not in set redirects to unauthorized",
			state:    AuthState{HasToken: true, Role: domain.RoleEmployee},
			req:      RequireRole(domain.RoleAdmin),
			wantKind: DecisionRedirect,
			wantPath: "/unauthorized",
		},
		{
			name:     "role in set is allowed",
			state:    AuthState{HasToken: true, Role: domain.RoleAdmin},
			req:      RequireRole(domain.RoleAdmin),
			wantKind: DecisionAllow,
		},
		{
			name:     "role in multi-role set is allowed",
			state:    AuthState{HasToken: true, Role: domain.RoleEmployee},
			req:      RequireRole(domain.RoleAdmin, domain.RoleEmployee),
			wantKind: DecisionAllow,
		},
		{
			name:     "unknown role with empty requirement is allowed",
			state:    AuthState{HasToken: true, Role: "intern"},
			req:      AnyAuthenticated(),
			wantKind: DecisionAllow,
		},
		{
			name:     "unknown role against role set is unauthorized",
			state:    AuthState{HasToken: true, Role: "intern"},
			req:      RequireRole(domain.RoleAdmin, domain.RoleEmployee),
			wantKind: DecisionRedirect,
			wantPath: "/unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.Check(tt.state, tt.req)
			if got.Kind != tt.wantKind {
				t.Errorf("Check() kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Check() path = %q, want %q", got.Path, tt.wantPath)
			}
		})
	}
}

// Every combination of inputs must map to exactly one decision, and a
// decision is a redirect exactly when it is not an allow.
func TestGateCheck_Total(t *testing.T) {
	gate := NewGate()
	roles := []domain.Role{"", domain.RoleAdmin, domain.RoleEmployee, "intern"}
	reqs := []Requirement{
		AnyAuthenticated(),
		RequireRole(domain.RoleAdmin),
		RequireRole(domain.RoleEmployee),
		RequireRole(domain.RoleAdmin, domain.RoleEmployee),
	}

	for _, hasToken := range []bool{false, true} {
		for _, expired := range []bool{false, true} {
			for _, role := range roles {
				for _, req := range reqs {
					state := AuthState{HasToken: hasToken, IsExpired: expired, Role: role}
					d := gate.Check(state, req)
					switch d.Kind {
					case DecisionAllow:
						if d.Path != "" {
							t.Errorf("allow decision carries path %q for state %+v", d.Path, state)
						}
					case DecisionRedirect:
						if d.Path == "" {
							t.Errorf("redirect decision missing path for state %+v", state)
						}
					default:
						t.Errorf("unexpected decision kind %v for state %+v", d.Kind, state)
					}
					if d.Allowed() != (d.Kind == DecisionAllow) {
						t.Errorf("Allowed() inconsistent with kind for state %+v", state)
					}
				}
			}
		}
	}
}

func TestGateCheck_CustomPaths(t *testing.T) {
	gate := Gate{LoginPath: "/signin", UnauthorizedPath: "/denied"}

	d := gate.Check(AuthState{}, AnyAuthenticated())
	if d.Path != "/signin" {
		t.Errorf("Expected /signin, got %s", d.Path)
	}

	d = gate.Check(AuthState{HasToken: true, Role: domain.RoleEmployee}, RequireRole(domain.RoleAdmin))
	if d.Path != "/denied" {
		t.Errorf("Expected /denied, got %s", d.Path)
	}
}

func TestGateCheck_ZeroValueFallsBackToDefaults(t *testing.T) {
	var gate Gate

	d := gate.Check(AuthState{}, AnyAuthenticated())
	if d.Path != DefaultLoginPath {
		t.Errorf("Expected %s, got %s", DefaultLoginPath, d.Path)
	}
}
