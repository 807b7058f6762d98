// Package measures provides a client for the measures API of a remote analysis server.
package measures

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/huangsam/covevo/internal/contract"
	"github.com/huangsam/covevo/schema"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Config holds configuration for the measures client.
type Config struct {
	// BaseURL is the server URL (e.g., "https://sonar.example.com")
	BaseURL string

	// Login and Password are sent as basic credentials when either is set
	Login    string
	Password string

	// Timeout for each HTTP request (default: 30s)
	Timeout time.Duration

	// Retries is the number of extra attempts after a transport failure or
	// a 5xx/429 status. Capped at 1.
	Retries int

	// RateLimit is the maximum number of requests per second (0 = unlimited)
	RateLimit float64

	// Logger receives failure records (default: slog.Default())
	Logger *slog.Logger

	// HTTPClient overrides the underlying client, mostly for tests
	HTTPClient *http.Client
}

// Client fetches single measures by component key.
type Client struct {
	baseURL  string
	login    string
	password string
	retries  int
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
	calls    atomic.Int64
}

var _ contract.MeasurementClient = &Client{} // Compile-time check

// NewClient creates a new measures client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("measures base URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = contract.DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		login:    cfg.Login,
		password: cfg.Password,
		retries:  min(max(cfg.Retries, 0), 1),
		client:   httpClient,
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return c, nil
}

// FetchMeasurement implements contract.MeasurementClient.
// Every failure is logged with the component and metric and reported as absent.
func (c *Client) FetchMeasurement(ctx context.Context, key schema.MeasurementKey) (float64, bool) {
	body, err := c.fetch(ctx, key)
	if err != nil {
		c.logger.Error("Could not fetch measure",
			"metric", key.Metric, "component", key.Component, "error", err)
		return 0, false
	}

	value, err := ExtractMeasure(body, key.Metric)
	if errors.Is(err, ErrNoMeasure) {
		c.logger.Debug("No previous measure available",
			"metric", key.Metric, "component", key.Component)
		return 0, false
	}
	if err != nil {
		c.logger.Error("Could not parse measure",
			"metric", key.Metric, "component", key.Component, "error", err)
		return 0, false
	}
	return value, true
}

// Calls returns the number of HTTP requests issued so far, retries included.
func (c *Client) Calls() int {
	return int(c.calls.Load())
}

// fetch performs the GET with at most one retry on retryable failures.
func (c *Client) fetch(ctx context.Context, key schema.MeasurementKey) ([]byte, error) {
	target := MeasureURL(c.baseURL, key)
	c.logger.Debug("Fetching measure", "url", target)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit: %w", err)
			}
		}

		body, retryable, err := c.do(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		c.logger.Debug("Retrying measure request", "url", target, "attempt", attempt+1, "error", err)
	}
	return nil, lastErr
}

// do issues one request. The boolean tells whether the failure is worth retrying.
func (c *Client) do(ctx context.Context, target string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if header, ok := MakeAuthHeader(c.login, c.password); ok {
		req.Header.Set("Authorization", header)
	}

	c.calls.Add(1)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("HTTP request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("server returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, false, nil
}

// MeasureURL builds the measures API URL for one component and metric.
func MeasureURL(baseURL string, key schema.MeasurementKey) string {
	return baseURL +
		"/api/measures/component?" +
		"componentKey=" + EncodeURLComponent(key.Component) +
		"&" +
		"metricKeys=" + EncodeURLComponent(string(key.Metric))
}

// EncodeURLComponent percent-encodes s, using %20 rather than '+' for spaces.
func EncodeURLComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MakeAuthHeader returns the basic Authorization header value.
// No header is produced when login and password are both empty.
// Credentials are encoded as ISO-8859-1; characters outside it become '?'.
func MakeAuthHeader(login, password string) (string, bool) {
	if login == "" && password == "" {
		return "", false
	}
	creds := login + ":" + password
	raw := make([]byte, 0, len(creds))
	for _, r := range creds {
		if r > 0xFF {
			raw = append(raw, '?')
			continue
		}
		raw = append(raw, byte(r))
	}
	return "Basic " + base64.StdEncoding.EncodeToString(raw), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
