package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	kberrors "github.com/matzehuels/kbgraph/pkg/errors"
	"github.com/matzehuels/kbgraph/pkg/observability"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxBody caps JSON responses read from data sources.
const maxBody = 32 << 20

// Client performs JSON GET requests with retry and reports every request
// to the registered observability.HTTPHooks.
type Client struct {
	HTTP     *http.Client
	Headers  map[string]string
	Attempts int
	Delay    time.Duration
}

// NewClient creates a Client with the default timeout, 3 attempts and a
// 1 second initial backoff. Headers are applied to every request.
func NewClient(headers map[string]string) *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: DefaultTimeout},
		Headers:  headers,
		Attempts: 3,
		Delay:    time.Second,
	}
}

// GetJSON fetches rawURL and decodes the JSON body into v, retrying
// transient failures.
func (c *Client) GetJSON(ctx context.Context, rawURL string, v any) error {
	return Retry(ctx, c.Attempts, c.Delay, func() error {
		body, err := c.do(ctx, rawURL)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(io.LimitReader(body, maxBody)).Decode(v); err != nil {
			return kberrors.Wrap(kberrors.ErrCodeInvalidGraph, err, "decode response from %s", rawURL)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeInvalidSource, err, "parse url")
	}
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, kberrors.Wrap(kberrors.ErrCodeInvalidSource, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, kberrors.Wrap(kberrors.ErrCodeTimeout, ctx.Err(), "fetch %s", u.Host)
		}
		return nil, Retryable(kberrors.Wrap(kberrors.ErrCodeNetwork, err, "fetch %s", u.Host))
	}
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) client() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return kberrors.New(kberrors.ErrCodeNotFound, "status %d", code)
	case code == http.StatusTooManyRequests:
		retry, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &kberrors.RateLimitedError{RetryAfter: retry}
	case code >= 500:
		return Retryable(kberrors.New(kberrors.ErrCodeNetwork, "status %d", code))
	default:
		return kberrors.New(kberrors.ErrCodeNetwork, "status %d", code)
	}
}
