// Package backend is the HTTP client for the remote simulator backend.
// The backend performs all actual generation work (chat replies, report
// synthesis, company persistence); this package only speaks its JSON API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tapilabs/leadsim/internal/domain"
)

const (
	accessTokenHeader = "X-Access-Token"
	adminKeyHeader    = "X-Admin-Key"

	// maxErrorBodySize caps how much of an error body is read for message
	// extraction.
	maxErrorBodySize = 64 << 10
)

// APIError is a non-success response from the backend with the most
// human-readable message the body offered.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Client calls the remote simulator backend. Every request is bounded by
// the configured timeout; the source system had none, which left loading
// flags stuck on hung requests.
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
	timeout    time.Duration

	mu    sync.RWMutex
	token string
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	AdminKey    string
	AccessToken string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// New creates a backend client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		adminKey:   opts.AdminKey,
		httpClient: httpClient,
		timeout:    timeout,
		token:      opts.AccessToken,
	}
}

// SetAccessToken replaces the token sent as X-Access-Token on chat and
// report calls. Called after a successful code exchange.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// VerifyAccess exchanges a short code for an access grant.
func (c *Client) VerifyAccess(ctx context.Context, req VerifyRequest) (*AccessGrant, error) {
	var grant AccessGrant
	if err := c.do(ctx, http.MethodPost, "/access/verify", req, &grant, nil); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Chat sends one leader turn and returns the persona's reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp, c.authHeaders()); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateReport requests a coaching report for a finished conversation.
func (c *Client) GenerateReport(ctx context.Context, req ReportRequest) (*ReportResponse, error) {
	var resp ReportResponse
	if err := c.do(ctx, http.MethodPost, "/report", req, &resp, c.authHeaders()); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCompanies fetches all registered companies via the admin API.
func (c *Client) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	headers := map[string]string{adminKeyHeader: c.adminKey}
	if err := c.do(ctx, http.MethodGet, "/admin/companies", nil, &companies, headers); err != nil {
		return nil, err
	}
	return companies, nil
}

// CreateCompany registers a new company via the admin API.
func (c *Client) CreateCompany(ctx context.Context, req CompanyRequest) error {
	headers := map[string]string{adminKeyHeader: c.adminKey}
	return c.do(ctx, http.MethodPost, "/admin/companies", req, nil, headers)
}

func (c *Client) authHeaders() map[string]string {
	token := c.accessToken()
	if token == "" {
		return nil
	}
	return map[string]string{accessTokenHeader: token}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &APIError{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// extractMessage pulls a human-readable message out of an error body.
// The backend uses "detail"; other deployments have used "error" and
// "message".
func extractMessage(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch {
	case body.Detail != "":
		return body.Detail
	case body.Error != "":
		return body.Error
	default:
		return body.Message
	}
}
