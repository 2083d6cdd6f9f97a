package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

var _ HTTPClient = (*httpClient)(nil)

type HTTPClient interface {
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)
	Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error)
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*httpClient)

// WithDefaultHeader sets a header on every request unless the caller overrides it.
func WithDefaultHeader(key, value string) Option {
	return func(c *httpClient) {
		c.defaults[key] = value
	}
}

func WithTransport(transport http.RoundTripper) Option {
	return func(c *httpClient) {
		c.client.Transport = transport
	}
}

type httpClient struct {
	client   *http.Client
	defaults map[string]string
}

func NewHTTPClient(timeout time.Duration, opts ...Option) HTTPClient {
	c := &httpClient{
		client:   &http.Client{Timeout: timeout},
		defaults: map[string]string{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *httpClient) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, url, nil, headers)
}

func (c *httpClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, body, headers)
}

func (c *httpClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req, nil)
	return c.client.Do(req)
}

func (c *httpClient) send(ctx context.Context, method, url string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req, headers)
	return c.client.Do(req)
}

func (c *httpClient) setHeaders(req *http.Request, headers map[string]string) {
	for key, value := range c.defaults {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
}
