// Package client is the Go consumer of the task API: an HTTP client with
// bounded timeouts, a local task cache kept in step with successful
// responses, and a notification feed derived from that cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 10 * time.Second

// Task mirrors the server's task representation.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateTask is the body for creating a task.
type CreateTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// UpdateTask is a partial update body. Nil fields are omitted entirely;
// DueDate set to a non-nil empty string sends an explicit null-equivalent
// ("" clears the date server-side).
type UpdateTask struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// APIError is a non-2xx response surfaced to the caller.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Client talks to the task API with a bearer token. Every call is bounded
// by the underlying http.Client timeout; an expired call surfaces as an
// error, never a hang.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New returns a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithHTTPClient allows a custom http.Client (tests, custom timeouts).
func NewWithHTTPClient(baseURL, token string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: hc}
}

func (c *Client) Create(ctx context.Context, body CreateTask) (Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPost, "/api/v1/tasks", body, &out, http.StatusCreated)
	return out, err
}

// List fetches the caller's tasks, optionally filtered to one status.
func (c *Client) List(ctx context.Context, status string) ([]Task, error) {
	path := "/api/v1/tasks"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out.Tasks, err
}

func (c *Client) Get(ctx context.Context, id int64) (Task, error) {
	var out Task
	err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+strconv.FormatInt(id, 10), nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) Update(ctx context.Context, id int64, body UpdateTask) (Task, error) {
	var out Task
	err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+strconv.FormatInt(id, 10), body, &out, http.StatusOK)
	return out, err
}

func (c *Client) UpdateStatus(ctx context.Context, id int64, status string) (Task, error) {
	var out Task
	body := map[string]string{"status": status}
	err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+strconv.FormatInt(id, 10)+"/status", body, &out, http.StatusOK)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+strconv.FormatInt(id, 10), nil, nil, http.StatusOK)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.Fields = payload.Fields
	}
	return apiErr
}
