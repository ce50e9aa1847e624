// Package client is a Go client for the gastos API. Calls carry the bearer
// token explicitly so one client can serve several sessions.
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

	"github.com/joaovitorrios/gerenciador-gastos/internal/core"
)

// ErrUnavailable wraps transport failures and timeouts. Callers can fall
// back to SampleTransactions when the API cannot be reached.
var ErrUnavailable = errors.New("api unavailable")

// DefaultTimeout caps every request
const DefaultTimeout = 5 * time.Second

// APIError carries the status and user-facing message of a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The API returns only a confirmation message,
// so a nil error is the whole answer.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", "", credentials{email, password}, nil)
}

// Login returns a bearer token for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{email, password}, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListTransactions returns the caller's transactions, optionally filtered.
func (c *Client) ListTransactions(ctx context.Context, token string, filter core.TransactionFilter) ([]core.Transaction, error) {
	path := "/api/transactions" + filterQuery(filter)
	var transactions []core.Transaction
	err := c.do(ctx, http.MethodGet, path, token, nil, &transactions)
	return transactions, err
}

func (c *Client) CreateTransaction(ctx context.Context, token string, tx core.Transaction) (core.Transaction, error) {
	var created core.Transaction
	err := c.do(ctx, http.MethodPost, "/api/transactions", token, tx, &created)
	return created, err
}

func (c *Client) GetTransaction(ctx context.Context, token, id string) (core.Transaction, error) {
	var tx core.Transaction
	err := c.do(ctx, http.MethodGet, "/api/transactions/"+id, token, nil, &tx)
	return tx, err
}

func (c *Client) UpdateTransaction(ctx context.Context, token string, tx core.Transaction) (core.Transaction, error) {
	var updated core.Transaction
	err := c.do(ctx, http.MethodPut, "/api/transactions/"+tx.ID, token, tx, &updated)
	return updated, err
}

func (c *Client) DeleteTransaction(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+id, token, nil, nil)
}

// Dashboard returns the server-side aggregation for the caller.
func (c *Client) Dashboard(ctx context.Context, token string) (core.Summary, error) {
	var summary core.Summary
	err := c.do(ctx, http.MethodGet, "/api/dashboard", token, nil, &summary)
	return summary, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection errors read as unavailable
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func filterQuery(filter core.TransactionFilter) string {
	params := url.Values{}
	if !filter.StartDate.IsZero() {
		params.Set("startDate", filter.StartDate.Format("2006-01-02"))
	}
	if !filter.EndDate.IsZero() {
		params.Set("endDate", filter.EndDate.Format("2006-01-02"))
	}
	if filter.Category != "" {
		params.Set("category", filter.Category)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}
