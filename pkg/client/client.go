// Package client is a Go client for the payroll API. Every call runs under
// a retry policy that backs off exponentially on transient failures and
// propagates fatal ones untouched.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Client talks to a payroll server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	exec       *Executor

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) { c.exec.Policy = policy }
}

// WithRetryCallbacks sets the retry progress callbacks.
func WithRetryCallbacks(onRetry func(attempt, total int, delay time.Duration, cause error), onGiveUp func(cause error)) Option {
	return func(c *Client) {
		c.exec.OnRetryScheduled = onRetry
		c.exec.OnGiveUp = onGiveUp
	}
}

// WithToken sets the initial bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		exec: NewExecutor(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token used for subsequent calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorEnvelope struct {
	Error struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		RedirectTo string `json:"redirect_to,omitempty"`
	} `json:"error"`
}

// do performs one attempt: build request, send, decode. Transport failures
// return the underlying error (no response); HTTP failures return *APIError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.bearer(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Unwrap url.Error so context cancellation stays recognizable.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return urlErr.Err
		}
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(respBody, &env) == nil && env.Error.Message != "" {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.RedirectPath = env.Error.RedirectTo
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %w", ErrSessionInvalid, apiErr)
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// call runs do under the retry executor.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	_, err := Do(ctx, c.exec, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.do(ctx, method, path, body, out)
	})
	return err
}

// Login authenticates and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.call(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

// Logout revokes the current token server-side and clears it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.call(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, "/api/v1/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Payslips returns the caller's own payroll records.
func (c *Client) Payslips(ctx context.Context) ([]PayrollRecord, error) {
	var records []PayrollRecord
	if err := c.call(ctx, http.MethodGet, "/api/v1/payslips", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Payslip returns one of the caller's payroll records by id.
func (c *Client) Payslip(ctx context.Context, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	if err := c.call(ctx, http.MethodGet, "/api/v1/payslips/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListUsers lists accounts (admin).
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.call(ctx, http.MethodGet, "/api/v1/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account (admin).
func (c *Client) CreateUser(ctx context.Context, email, password, role string) (*User, error) {
	var u User
	err := c.call(ctx, http.MethodPost, "/api/v1/users", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListEmployees lists employees (admin).
func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	if err := c.call(ctx, http.MethodGet, "/api/v1/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// CreateEmployee creates an employee (admin).
func (c *Client) CreateEmployee(ctx context.Context, e Employee) (*Employee, error) {
	var created Employee
	if err := c.call(ctx, http.MethodPost, "/api/v1/employees", e, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Employee returns one employee by id (admin).
func (c *Client) Employee(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := c.call(ctx, http.MethodGet, "/api/v1/employees/"+url.PathEscape(id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreatePayroll creates a payroll record (admin).
func (c *Client) CreatePayroll(ctx context.Context, r PayrollRecord) (*PayrollRecord, error) {
	var created PayrollRecord
	if err := c.call(ctx, http.MethodPost, "/api/v1/payroll", r, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ApprovePayroll moves a draft record to approved (admin).
func (c *Client) ApprovePayroll(ctx context.Context, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	if err := c.call(ctx, http.MethodPost, "/api/v1/payroll/"+url.PathEscape(id)+"/approve", nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// PayPayroll moves an approved record to paid (admin).
func (c *Client) PayPayroll(ctx context.Context, id string) (*PayrollRecord, error) {
	var record PayrollRecord
	if err := c.call(ctx, http.MethodPost, "/api/v1/payroll/"+url.PathEscape(id)+"/pay", nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// MonthlyReport returns the aggregate payroll summary for a period (admin).
func (c *Client) MonthlyReport(ctx context.Context, year, month int) (*MonthlySummary, error) {
	path := "/api/v1/reports/monthly?year=" + strconv.Itoa(year) + "&month=" + strconv.Itoa(month)
	var summary MonthlySummary
	if err := c.call(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetSettings returns the caller's display settings.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := c.call(ctx, http.MethodGet, "/api/v1/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettings merges the given partial settings into the caller's stored
// settings and returns the result.
func (c *Client) UpdateSettings(ctx context.Context, partial Settings) (*Settings, error) {
	var s Settings
	if err := c.call(ctx, http.MethodPut, "/api/v1/settings", partial, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
