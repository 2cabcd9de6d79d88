package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors returned by the client.
var (
	// ErrNotFound is returned when the task or staff member does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest is returned when the server rejects the request as
	// invalid.
	ErrInvalidRequest = errors.New("invalid request")
)

// Config configures the API client.
type Config struct {
	// BaseURL is the server address, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient overrides the HTTP client used for calls.
	// Default: a client with a 30s timeout.
	HTTPClient *http.Client
}

func (c *Config) defaults() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return nil
}

// Client calls the packflow API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{baseURL: cfg.BaseURL, httpClient: cfg.HTTPClient}, nil
}

// Health checks the server liveness.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// Dashboard retrieves the grouped task view.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := c.call(ctx, http.MethodGet, "/api/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetTask retrieves a single task.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := c.call(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ApplyAction applies a lifecycle action to a task.
func (c *Client) ApplyAction(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	var res ActionResult
	if err := c.call(ctx, http.MethodPost, "/api/tasks/action", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateChecklist replaces a task's checklist with the given JSON array.
func (c *Client) UpdateChecklist(ctx context.Context, id, checklistJSON string) (*Task, error) {
	body := map[string]string{"checklist_json": checklistJSON}
	var t Task
	if err := c.call(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id)+"/checklist", body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TaskHistory returns a task's audit entries, newest first.
func (c *Client) TaskHistory(ctx context.Context, id string) ([]AuditEntry, error) {
	var entries []AuditEntry
	if err := c.call(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id)+"/history", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListStaff returns all staff members.
func (c *Client) ListStaff(ctx context.Context) ([]StaffMember, error) {
	var members []StaffMember
	if err := c.call(ctx, http.MethodGet, "/api/staff", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GetStaff retrieves a staff member by staff code.
func (c *Client) GetStaff(ctx context.Context, staffID string) (*StaffMember, error) {
	var m StaffMember
	if err := c.call(ctx, http.MethodGet, "/api/staff/"+url.PathEscape(staffID), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateStaff creates a staff member. StaffID is optional, the server
// generates a code when empty.
func (c *Client) CreateStaff(ctx context.Context, name, staffID string) (*StaffMember, error) {
	body := map[string]string{"name": name, "staff_id": staffID}
	var m StaffMember
	if err := c.call(ctx, http.MethodPost, "/api/staff", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateStaff updates a staff member's display name.
func (c *Client) UpdateStaff(ctx context.Context, staffID, name string) (*StaffMember, error) {
	body := map[string]string{"name": name}
	var m StaffMember
	if err := c.call(ctx, http.MethodPut, "/api/staff/"+url.PathEscape(staffID), body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteStaff deletes a staff member by staff code.
func (c *Client) DeleteStaff(ctx context.Context, staffID string) error {
	return c.call(ctx, http.MethodDelete, "/api/staff/"+url.PathEscape(staffID), nil, nil)
}

// CheckIn acknowledges a staff check in or check out. Action must be
// "CHECK_IN" or "CHECK_OUT".
func (c *Client) CheckIn(ctx context.Context, staffID, action string) (*CheckEvent, error) {
	body := map[string]string{"staffId": staffID, "action": action}
	var event CheckEvent
	if err := c.call(ctx, http.MethodPost, "/api/staff/checkin", body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ReportIssue moves a task to the exception pool.
func (c *Client) ReportIssue(ctx context.Context, report IssueReport) (*ActionResult, error) {
	var res ActionResult
	if err := c.call(ctx, http.MethodPost, "/api/issues/report", report, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SyncAuditLogs bulk-uploads client-buffered audit entries. Per-entry
// failures are reported in the result, not as an error.
func (c *Client) SyncAuditLogs(ctx context.Context, logs []AuditLog) (*SyncResult, error) {
	body := map[string]any{"logs": logs}
	var res SyncResult
	if err := c.call(ctx, http.MethodPost, "/api/audit-logs/sync", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("could not encode request: %w", err)
		}
	}

	var req *http.Request
	var err error
	if reqBody != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("could not decode response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		return apiError(resp.StatusCode, env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("could not decode response data: %w", err)
		}
	}

	return nil
}

func apiError(status int, msg string) error {
	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	default:
		return fmt.Errorf("server error (status %d): %s", status, msg)
	}
}
