package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/domain"
	"github.com/vietddude/payroll/internal/infra/redis"
	"github.com/vietddude/payroll/internal/infra/storage"
	"github.com/vietddude/payroll/internal/metrics"
)

const (
	loginAttemptsPerEmail = 5
	loginAttemptsPerIP    = 20
	loginWindow           = 15 * time.Minute
)

// AuthHandler handles login, logout, and the current-user endpoint.
type AuthHandler struct {
	users   storage.UserRepository
	issuer  *auth.TokenIssuer
	deny    redis.Denylist
	limiter redis.RateLimiter
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	users storage.UserRepository,
	issuer *auth.TokenIssuer,
	deny redis.Denylist,
	limiter redis.RateLimiter,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, deny: deny, limiter: limiter, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	Role  string       `json:"role"`
	User  userResponse `json:"user"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "invalid JSON in request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		WriteError(w, http.StatusBadRequest, CodeInvalidRequest, "email and password are required")
		return
	}

	if !h.allowAttempt(r, req.Email) {
		metrics.LoginsTotal.WithLabelValues("rate_limited").Inc()
		WriteError(w, http.StatusTooManyRequests, CodeRateLimited, "too many login attempts, try again later")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		h.rejectCredentials(w)
		return
	}
	if err != nil {
		h.logger.Error("login lookup failed", "error", err)
		HandleError(w, err)
		return
	}
	if !user.Active || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.rejectCredentials(w)
		return
	}

	token, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.Error("token issue failed", "error", err)
		WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to issue token")
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	WriteJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Role:  string(user.Role),
		User:  toUserResponse(user),
	})
}

func (h *AuthHandler) rejectCredentials(w http.ResponseWriter) {
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	// Same body for unknown email and wrong password.
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid credentials")
}

func (h *AuthHandler) allowAttempt(r *http.Request, email string) bool {
	if h.limiter == nil {
		return true
	}
	ok, err := h.limiter.Allow(r.Context(), "login:email:"+email, loginAttemptsPerEmail, loginWindow)
	if err != nil {
		h.logger.Warn("rate limit check failed", "error", err)
		return true
	}
	if !ok {
		return false
	}
	ip := clientIP(r)
	ok, err = h.limiter.Allow(r.Context(), "login:ip:"+ip, loginAttemptsPerIP, loginWindow)
	if err != nil {
		h.logger.Warn("rate limit check failed", "error", err)
		return true
	}
	return ok
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Logout handles POST /api/v1/auth/logout. The presented token goes on the
// denylist until its natural expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}
	if h.deny != nil && identity.Claims != nil && identity.Claims.ExpiresAt != nil {
		ttl := time.Until(identity.Claims.ExpiresAt.Time)
		if err := h.deny.Revoke(r.Context(), identity.Token, ttl); err != nil {
			h.logger.Error("token revocation failed", "error", err)
			WriteError(w, http.StatusInternalServerError, CodeInternal, "failed to revoke token")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
		return
	}
	user, err := h.users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		HandleError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toUserResponse(user))
}
