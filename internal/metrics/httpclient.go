package metrics

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/javivarba/chatbots/pkg/httpclient"
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

type instrumentedClient struct {
	next    httpclient.HTTPClient
	metrics *Metrics
}

// InstrumentHTTPClient records count and latency of every backend request.
// Numeric path segments are collapsed to keep label cardinality bounded.
func InstrumentHTTPClient(next httpclient.HTTPClient, m *Metrics) httpclient.HTTPClient {
	return &instrumentedClient{next: next, metrics: m}
}

func (c *instrumentedClient) Get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.next.Get(ctx, rawURL, headers)
	c.record(http.MethodGet, rawURL, resp, err, start)
	return resp, err
}

func (c *instrumentedClient) Post(ctx context.Context, rawURL string, body io.Reader, headers map[string]string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.next.Post(ctx, rawURL, body, headers)
	c.record(http.MethodPost, rawURL, resp, err, start)
	return resp, err
}

func (c *instrumentedClient) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.next.Do(req)
	c.record(req.Method, req.URL.String(), resp, err, start)
	return resp, err
}

func (c *instrumentedClient) record(method, rawURL string, resp *http.Response, err error, start time.Time) {
	c.metrics.RecordBackendRequest(method, EndpointLabel(rawURL), outcome(resp, err), time.Since(start))
}

// EndpointLabel reduces a request URL to its path with ids replaced by ":id".
func EndpointLabel(rawURL string) string {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		path = parsed.Path
	}

	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/:id$1")
	}

	return path
}

func outcome(resp *http.Response, err error) string {
	if err != nil {
		return "error"
	}
	if resp == nil {
		return "unknown"
	}

	return strconv.Itoa(resp.StatusCode)
}
