package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/domain"
	redisclient "github.com/vietddude/payroll/internal/infra/redis"
)

func newAuthenticator() (*Authenticator, *auth.TokenIssuer, *redisclient.MemoryDenylist) {
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	deny := redisclient.NewMemoryDenylist()
	return &Authenticator{
		Issuer:   issuer,
		Gate:     auth.NewGate(),
		Denylist: deny,
		Logger:   discardLogger(),
	}, issuer, deny
}

func protectedProbe(a *Authenticator, req auth.Requirement) (http.Handler, *Identity) {
	seen := &Identity{}
	handler := a.Require(req)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := IdentityFrom(r.Context()); ok {
			*seen = *id
		}
		w.WriteHeader(http.StatusOK)
	}))
	return handler, seen
}

func doGet(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRequire_NoToken(t *testing.T) {
	a, _, _ := newAuthenticator()
	handler, _ := protectedProbe(a, auth.AnyAuthenticated())

	rec := doGet(handler, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.RedirectTo != "/login" {
		t.Errorf("Expected redirect /login, got %s", e.RedirectTo)
	}
}

func TestRequire_ValidToken(t *testing.T) {
	a, issuer, _ := newAuthenticator()
	handler, seen := protectedProbe(a, auth.AnyAuthenticated())

	user := &domain.User{ID: "u1", Role: domain.RoleEmployee}
	token, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	rec := doGet(handler, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if seen.UserID != "u1" || seen.Role != domain.RoleEmployee {
		t.Errorf("Identity not propagated: %+v", seen)
	}
}

func TestRequire_GarbageToken(t *testing.T) {
	a, _, _ := newAuthenticator()
	handler, _ := protectedProbe(a, auth.AnyAuthenticated())

	rec := doGet(handler, "not-a-real-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestRequire_RevokedToken(t *testing.T) {
	a, issuer, deny := newAuthenticator()
	handler, _ := protectedProbe(a, auth.AnyAuthenticated())

	token, err := issuer.Issue(&domain.User{ID: "u1", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if err := deny.Revoke(context.Background(), token, time.Hour); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	rec := doGet(handler, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for revoked token, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.RedirectTo != "/login" {
		t.Errorf("Expected redirect /login, got %s", e.RedirectTo)
	}
}

func TestRequire_InsufficientRole(t *testing.T) {
	a, issuer, _ := newAuthenticator()
	handler, _ := protectedProbe(a, auth.RequireRole(domain.RoleAdmin))

	token, err := issuer.Issue(&domain.User{ID: "u1", Role: domain.RoleEmployee})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	rec := doGet(handler, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("Expected 403, got %d", rec.Code)
	}
	if e := decodeError(t, rec); e.RedirectTo != "/unauthorized" {
		t.Errorf("Expected redirect /unauthorized, got %s", e.RedirectTo)
	}
}

func TestRequire_MatchingRole(t *testing.T) {
	a, issuer, _ := newAuthenticator()
	handler, seen := protectedProbe(a, auth.RequireRole(domain.RoleAdmin))

	token, err := issuer.Issue(&domain.User{ID: "admin-1", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	rec := doGet(handler, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if seen.UserID != "admin-1" {
		t.Errorf("Identity not propagated: %+v", seen)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := BearerToken(req); got != tt.want {
			t.Errorf("BearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
