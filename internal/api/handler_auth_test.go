package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/domain"
	redisclient "github.com/vietddude/payroll/internal/infra/redis"
	"github.com/vietddude/payroll/internal/infra/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedActiveUser(t *testing.T, users *memory.UserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Save(context.Background(), u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	return u
}

func newAuthHandler(t *testing.T) (*AuthHandler, *memory.UserRepo, *auth.TokenIssuer) {
	t.Helper()
	users := memory.NewUserRepo(memory.NewMemoryStorage())
	issuer := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	h := NewAuthHandler(users, issuer, redisclient.NewMemoryDenylist(), redisclient.NewMemoryRateLimiter(), discardLogger())
	return h, users, issuer
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.RemoteAddr = "192.0.2.1:12345"
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode error envelope: %v", err)
	}
	return env.Error
}

func TestLogin_InvalidJSON(t *testing.T) {
	h, _, _ := newAuthHandler(t)
	rec := postLogin(h, "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	h, _, _ := newAuthHandler(t)
	rec := postLogin(h, `{"email":"a@b.c"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	h, users, issuer := newAuthHandler(t)
	seedActiveUser(t, users, "admin@example.com", "password-1", domain.RoleAdmin)

	rec := postLogin(h, `{"email":"Admin@Example.com","password":"password-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Role != "admin" {
		t.Errorf("Expected role admin, got %s", resp.Role)
	}
	claims, err := issuer.Parse(resp.Token)
	if err != nil {
		t.Fatalf("Issued token failed to parse: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Errorf("Expected admin claims, got %s", claims.Role)
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLogin_RejectionsLookIdentical(t *testing.T) {
	h, users, _ := newAuthHandler(t)
	seedActiveUser(t, users, "known@example.com", "password-1", domain.RoleEmployee)

	unknown := postLogin(h, `{"email":"unknown@example.com","password":"password-1"}`)
	wrongPass := postLogin(h, `{"email":"known@example.com","password":"wrong-pass"}`)

	if unknown.Code != http.StatusUnauthorized || wrongPass.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401/401, got %d/%d", unknown.Code, wrongPass.Code)
	}
	if unknown.Body.String() != wrongPass.Body.String() {
		t.Errorf("Rejection bodies differ:\n%s\n%s", unknown.Body.String(), wrongPass.Body.String())
	}
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	h, users, _ := newAuthHandler(t)
	u := seedActiveUser(t, users, "gone@example.com", "password-1", domain.RoleEmployee)
	u.Active = false
	if err := users.Update(context.Background(), u); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	rec := postLogin(h, `{"email":"gone@example.com","password":"password-1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h, users, _ := newAuthHandler(t)
	seedActiveUser(t, users, "target@example.com", "password-1", domain.RoleEmployee)

	body := `{"email":"target@example.com","password":"wrong-pass"}`
	for i := 0; i < loginAttemptsPerEmail; i++ {
		rec := postLogin(h, body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("Attempt %d: expected 401, got %d", i+1, rec.Code)
		}
	}

	rec := postLogin(h, body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 after %d attempts, got %d", loginAttemptsPerEmail, rec.Code)
	}
	if e := decodeError(t, rec); e.Code != CodeRateLimited {
		t.Errorf("Expected rate_limited code, got %s", e.Code)
	}

	// Correct credentials are also blocked while the window lasts.
	rec = postLogin(h, `{"email":"target@example.com","password":"password-1"}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 for correct credentials in window, got %d", rec.Code)
	}
}
