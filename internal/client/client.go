// Package client is a typed HTTP client for the task manager API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"taskflow/internal/model"
	"taskflow/internal/notify"
)

const maxResponseSize = 4 << 20

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    sonic.NoCopyRawMessage `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Health is the body of GET /health.
type Health struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
	Database     string `json:"database"`
	EmailService string `json:"email_service"`
	EmailsSent   int    `json:"emails_sent"`
}

// Client wraps http.Client with helpers for the API's JSON envelope.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:5000.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Counts(ctx context.Context) (model.StatusCounts, error) {
	counts := model.NewStatusCounts()
	if err := c.do(ctx, http.MethodGet, "/tasks/counts", nil, &counts, nil); err != nil {
		return nil, err
	}
	return counts, nil
}

func (c *Client) TasksByStatus(ctx context.Context, status model.Status) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/status/"+url.PathEscape(string(status)), nil, &tasks, nil); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Task(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+id.String(), nil, &task, nil); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	var created model.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", task, &created, nil); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Task, error) {
	var task model.Task
	body := map[string]model.Status{"status": status}
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id.String()+"/status", body, &task, nil); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask sends a partial update through the full update endpoint.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, patch model.TaskPatch) (*model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+id.String(), patch, &task, nil); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) LoadSampleData(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := c.do(ctx, http.MethodPost, "/sample-data", nil, &tasks, nil); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Emails(ctx context.Context) ([]notify.Record, error) {
	var records []notify.Record
	if err := c.do(ctx, http.MethodGet, "/emails", nil, &records, nil); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) ClearEmails(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/emails", nil, nil, nil)
}

// Health is answered without the data envelope, so it is decoded whole.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// do sends the request. data receives the envelope's data field; whole, when
// set, receives the entire body instead.
func (c *Client) do(ctx context.Context, method, path string, body, data, whole any) error {
	var reader io.Reader
	if body != nil {
		raw, err := sonic.ConfigStd.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "client: encode request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "client: build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "client: %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrap(err, "client: read response")
	}

	var env envelope
	if err := sonic.ConfigStd.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return errors.Wrap(err, "client: decode response")
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if whole != nil {
		return errors.Wrap(sonic.ConfigStd.Unmarshal(raw, whole), "client: decode response")
	}
	if data != nil && len(env.Data) > 0 {
		if err := sonic.ConfigStd.Unmarshal(env.Data, data); err != nil {
			return errors.Wrap(err, "client: decode data")
		}
	}
	return nil
}
