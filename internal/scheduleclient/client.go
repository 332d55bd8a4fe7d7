// Package scheduleclient talks to the remote schedule service over HTTP JSON.
package scheduleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/hours/internal/models"
)

// Sentinel errors for common HTTP error classes. All of them also match
// ErrTransport.
var (
	ErrTransport    = errors.New("transport error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
)

// TransportError is any failed exchange with the remote service: a network
// failure (Status 0) or a non-2xx response.
type TransportError struct {
	Method    string
	Path      string
	Status    int
	Code      string
	Message   string
	RequestID string // X-Request-ID sent; the reference server logs under it
	Err       error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.Path)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " %s", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request %s)", e.RequestID)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrRateLimited:
		return e.Status == http.StatusTooManyRequests
	}
	return false
}

// Client is an HTTP client for the schedule service.
type Client struct {
	BaseURL string
	APIKey  string
	// Location is the fixed zone wire times are rendered in and read into.
	Location *time.Location
	HTTP     *http.Client
}

// New creates a new schedule client.
func New(baseURL, apiKey string, loc *time.Location, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Location: loc,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Patch is a partial update. Nil fields are not sent.
type Patch struct {
	Name        *string
	Description *string
	Days        *models.Availability
}

// HealthResponse is the response from GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthCheck hits the /healthz endpoint to verify server reachability.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, "GET", "/healthz", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchAll lists every schedule.
func (c *Client) FetchAll(ctx context.Context) ([]*models.WeeklySchedule, error) {
	var resp []ScheduleJSON
	if err := c.do(ctx, "GET", "/schedulingHours", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.WeeklySchedule, 0, len(resp))
	for _, w := range resp {
		s, err := DecodeSchedule(w, c.Location)
		if err != nil {
			return nil, fmt.Errorf("decode schedule: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Get fetches a single schedule.
func (c *Client) Get(ctx context.Context, id string) (*models.WeeklySchedule, error) {
	var resp ScheduleJSON
	if err := c.do(ctx, "GET", "/schedulingHours/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return DecodeSchedule(resp, c.Location)
}

// Create stores a new schedule and returns it with its server-assigned ID.
func (c *Client) Create(ctx context.Context, s *models.WeeklySchedule) (*models.WeeklySchedule, error) {
	body := EncodeSchedule(s, c.Location)
	body.ID = ""
	var resp ScheduleJSON
	if err := c.do(ctx, "POST", "/schedulingHours", body, &resp); err != nil {
		return nil, err
	}
	return DecodeSchedule(resp, c.Location)
}

// Update applies a partial update to the schedule with the given ID.
func (c *Client) Update(ctx context.Context, id string, p Patch) error {
	body := PatchJSON{Name: p.Name, Description: p.Description}
	if p.Days != nil {
		days := EncodeDays(*p.Days, c.Location)
		body.DaysOfWeek = &days
	}
	return c.do(ctx, "PUT", "/schedulingHours/"+url.PathEscape(id), body, nil)
}

// UpdateDays sends the full day/frame set of a schedule.
func (c *Client) UpdateDays(ctx context.Context, id string, days models.Availability) error {
	return c.Update(ctx, id, Patch{Days: &days})
}

// Delete removes the schedule with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", "/schedulingHours/"+url.PathEscape(id), nil, nil)
}

// --- HTTP helpers ---

// errorBody is the standard error body from the server.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	// FastAPI-style servers put the message here.
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	rid := uuid.NewString()
	req.Header.Set("X-Request-ID", rid)
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, RequestID: rid, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Status: resp.StatusCode, RequestID: rid, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		te := &TransportError{Method: method, Path: path, Status: resp.StatusCode, RequestID: rid}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && (eb.Error.Code != "" || eb.Detail != "") {
			te.Code = eb.Error.Code
			te.Message = eb.Error.Message
			if te.Message == "" {
				te.Message = eb.Detail
			}
		} else {
			te.Message = strings.TrimSpace(string(respBody))
		}
		return te
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
