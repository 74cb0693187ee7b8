// Package dnanexus is a small client for the DNAnexus platform API.
package dnanexus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stanfordbioinformatics/gbsc-dnanexus/internal/metrics"
)

// DefaultAPIServer is the public DNAnexus API endpoint.
const DefaultAPIServer = "https://api.dnanexus.com"

const (
	defaultTimeout  = 120 * time.Second
	maxRetries      = 3
	maxRetryAfter   = 30 * time.Second
	maxResponseSize = 16 << 20 // 16 MiB
)

type Client struct {
	BaseURL string
	Token   string
	// TokenType prefixes Token in the Authorization header. Empty means Bearer.
	TokenType string
	HTTP      *http.Client
	// Logger receives retry diagnostics. Nil disables them.
	Logger *slog.Logger
	// Now is used to resolve relative time expressions.
	Now func() time.Time
}

// New creates a new DNAnexus client. An empty baseURL selects DefaultAPIServer.
func New(baseURL, token string) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	token = strings.TrimSpace(token)

	if base == "" {
		base = DefaultAPIServer
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("dnanexus api server: %w", err)
	}
	if token == "" {
		return nil, errors.New("dnanexus api token is required")
	}

	return &Client{
		BaseURL: base,
		Token:   token,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}, nil
}

func (c *Client) authorization() string {
	tokenType := strings.TrimSpace(c.TokenType)
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType + " " + c.Token
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) httpClient() (*http.Client, error) {
	if c.BaseURL == "" || c.Token == "" {
		return nil, errors.New("dnanexus api server and token are required")
	}
	if c.HTTP == nil {
		return &http.Client{Timeout: defaultTimeout}, nil
	}
	if c.HTTP.Timeout > 0 {
		return c.HTTP, nil
	}
	copy := *c.HTTP
	copy.Timeout = defaultTimeout
	return &copy, nil
}

func (c *Client) retryClient(httpClient *http.Client) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = maxRetries
	rc.CheckRetry = checkRetry
	rc.Backoff = retryBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if c.Logger != nil {
		rc.Logger = c.Logger
	}
	return rc
}

// call issues POST /{object}/{method} and decodes the response into out.
func (c *Client) call(ctx context.Context, object, method string, input, out any) error {
	httpClient, err := c.httpClient()
	if err != nil {
		return err
	}
	if input == nil {
		input = map[string]any{}
	}
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}

	endpoint := c.BaseURL + "/" + url.PathEscape(object) + "/" + method
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "gbsc-dnanexus")

	resp, err := c.retryClient(httpClient).Do(req)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		return err
	}
	defer resp.Body.Close()
	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(object, method, resp, raw)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// WhoAmI returns the user ID the token authenticates as.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, "system", "whoami", nil, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return shouldRetryError(ctx, err), nil
	}
	return shouldRetryStatus(resp), nil
}

func retryBackoff(_, _ time.Duration, attempt int, resp *http.Response) time.Duration {
	return retryDelay(resp, attempt)
}

func shouldRetryStatus(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func shouldRetryError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx != nil && ctx.Err() != nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

func retryDelay(resp *http.Response, attempt int) time.Duration {
	if d := retryAfter(resp); d > 0 {
		return d
	}
	return backoffDelay(attempt)
}

func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		d := time.Duration(secs) * time.Second
		return min(d, maxRetryAfter)
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			return 0
		}
		return min(d, maxRetryAfter)
	}
	return 0
}

func backoffDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}
	d := 200 * time.Millisecond
	for range attempt {
		d *= 2
		if d >= 5*time.Second {
			return 5 * time.Second
		}
	}
	return d
}
