// Package backend is a client for a remote transactions table exposed over a
// PostgREST-style API. It is an integration point only: the story flow never
// depends on it, and a client built from placeholder settings refuses to run.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/baby-bitcoin/internal/model"
)

const (
	// PlaceholderURL and PlaceholderKey are the template values shipped in
	// sample config. They never reach the network.
	PlaceholderURL = "https://your-project.supabase.co"
	PlaceholderKey = "your-public-anon-key"

	table = "transactions"
)

// ErrNotConfigured is returned when the client has no usable endpoint.
var ErrNotConfigured = errors.New("backend not configured")

// Client talks to the remote transactions table.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.log = logger }
}

// New creates a client. The URL and key are validated lazily so that an
// unconfigured client can still be constructed.
func New(baseURL, key string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client has a real endpoint and key.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.key != "" &&
		c.baseURL != PlaceholderURL && c.key != PlaceholderKey
}

// FetchAllTransactions returns every remote transaction.
func (c *Client) FetchAllTransactions(ctx context.Context) ([]model.Transaction, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "?select=*", nil)
	if err != nil {
		return nil, err
	}
	var out []model.Transaction
	if err := c.do(req, &out); err != nil {
		c.log.Error("fetch transactions", "error", err)
		return nil, err
	}
	return out, nil
}

// InsertTransaction stores tx remotely and returns the stored row.
func (c *Client) InsertTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	body, err := json.Marshal([]model.Transaction{tx})
	if err != nil {
		return model.Transaction{}, fmt.Errorf("encode transaction: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "", body)
	if err != nil {
		return model.Transaction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	var rows []model.Transaction
	if err := c.do(req, &rows); err != nil {
		c.log.Error("insert transaction", "id", tx.ID, "error", err)
		return model.Transaction{}, err
	}
	if len(rows) == 0 {
		return tx, nil
	}
	return rows[0], nil
}

func (c *Client) newRequest(ctx context.Context, method, query string, body []byte) (*http.Request, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/rest/v1/"+table+query, r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
