// Package api is the HTTP client of the transcription backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
)

const (
	// DefaultBaseURL is where the backend listens when run locally.
	DefaultBaseURL = "http://localhost:8000"
	// MaxHistoryLimit is the largest page size the backend accepts.
	MaxHistoryLimit = 100

	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// APIError is a non-2xx response of the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps well known status codes onto the model sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return model.ErrNotValid
	}
	return nil
}

// DetailOf returns the server-provided detail of err, if any.
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// ClientConfig is the configuration of the backend client.
type ClientConfig struct {
	BaseURL string
	// HTTPClient must not set a Timeout, the status stream is long lived.
	HTTPClient *http.Client
	// Timeout applies to every request except the status stream.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url %q: %w", c.BaseURL, model.ErrNotValid)
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Client talks to the transcription backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     log.Logger
}

// NewClient returns a new backend client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Submit creates a processing job for videoURL.
func (c *Client) Submit(ctx context.Context, videoURL, summaryLanguage string) (*model.SubmitResult, error) {
	form := url.Values{}
	form.Set("url", videoURL)
	if summaryLanguage != "" {
		form.Set("summary_language", summaryLanguage)
	}

	var res model.SubmitResult
	err := c.doJSON(ctx, http.MethodPost, "/api/process-video", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &res)
	if err != nil {
		return nil, err
	}
	if res.TaskID == "" {
		return nil, fmt.Errorf("backend returned no task id: %w", model.ErrNotValid)
	}
	return &res, nil
}

// TaskStatus returns the current snapshot of a task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*model.TaskRecord, error) {
	var rec model.TaskRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/task-status/"+url.PathEscape(taskID), nil, "", &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// OpenStream opens the server-sent event stream of a task. The caller owns
// the returned body; cancelling ctx aborts it.
func (c *Client) OpenStream(ctx context.Context, taskID string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/task-stream/"+url.PathEscape(taskID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not open task stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

// ListHistory returns a page of completed tasks, newest first.
func (c *Client) ListHistory(ctx context.Context, page, limit int) (*model.HistoryPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1: %w", model.ErrNotValid)
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", MaxHistoryLimit, model.ErrNotValid)
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var res model.HistoryPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/history?"+q.Encode(), nil, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetHistory returns the full result of a completed task.
func (c *Client) GetHistory(ctx context.Context, taskID string) (*model.HistoryDetail, error) {
	var res model.HistoryDetail
	if err := c.doJSON(ctx, http.MethodGet, "/api/history/"+url.PathEscape(taskID), nil, "", &res); err != nil {
		return nil, err
	}
	if res.TaskID == "" {
		res.TaskID = taskID
	}
	return &res, nil
}

// DeleteHistory removes a completed task and its result files.
func (c *Client) DeleteHistory(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/history/"+url.PathEscape(taskID), nil, "", nil)
}

// CancelTask stops and forgets a running task.
func (c *Client) CancelTask(ctx context.Context, taskID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/task/"+url.PathEscape(taskID), nil, "", nil)
}

// ActiveTasks returns the tasks currently processed by the backend.
func (c *Client) ActiveTasks(ctx context.Context) (*model.ActiveTasks, error) {
	var res model.ActiveTasks
	if err := c.doJSON(ctx, http.MethodGet, "/api/tasks/active", nil, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Download copies a result markdown file into w.
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) (int64, error) {
	if err := ValidateResultFilename(filename); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, "/api/download/"+url.PathEscape(filename), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("could not download %s: %w", filename, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("could not read %s: %w", filename, err)
	}
	return n, nil
}

// ValidateResultFilename applies the backend's download rules locally:
// markdown only and no path components.
func ValidateResultFilename(filename string) error {
	if !strings.HasSuffix(filename, ".md") {
		return fmt.Errorf("only .md files can be downloaded: %w", model.ErrNotValid)
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid file name %q: %w", filename, model.ErrNotValid)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	id := uuid.NewString()
	req.Header.Set(requestIDHeader, id)
	c.logger.WithValues(log.Kv{"request-id": id}).Debugf("%s %s", method, path)
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response of %s: %w", path, err)
	}
	return nil
}

// decodeError reads a FastAPI style error body.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			apiErr.Detail = s
		} else {
			apiErr.Detail = string(body.Detail)
		}
		return apiErr
	}
	apiErr.Detail = strings.TrimSpace(string(raw))
	return apiErr
}
