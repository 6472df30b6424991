package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/muurk/treebrowse/internal/logging"
	"github.com/muurk/treebrowse/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultRetryWaitMin is the initial delay between retry attempts
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum delay for exponential backoff
	DefaultRetryWaitMax = 30 * time.Second

	// maxBodySize caps how much of a listing response is read
	maxBodySize = 16 << 20
)

// Client fetches one level of the hierarchy from a listing endpoint.
//
// A fresh client never retries: a failed fetch is reported once and the
// caller decides what to do. WithRetries opts into automatic retries of
// transport failures.
type Client struct {
	// URL is the listing endpoint (e.g., "http://localhost:8080/listing")
	URL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

type options struct {
	timeout      time.Duration
	retries      int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	httpClient   *http.Client
	userAgent    string
}

// Option configures a Client
type Option func(*options)

// WithTimeout sets the per-attempt HTTP timeout (0 disables it). It is
// ignored when WithHTTPClient supplies a client, which keeps its own Timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetries sets how many times a transport failure is retried
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

// WithRetryWait sets the backoff bounds between retries
func WithRetryWait(min, max time.Duration) Option {
	return func(o *options) {
		o.retryWaitMin = min
		o.retryWaitMax = max
	}
}

// WithHTTPClient sets the HTTP client the retry transport wraps. The client
// is used as given.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// NewClient creates a listing client for the given endpoint URL
func NewClient(endpoint string, opts ...Option) *Client {
	o := options{
		timeout:      DefaultTimeout,
		retryWaitMin: DefaultRetryWaitMin,
		retryWaitMax: DefaultRetryWaitMax,
		userAgent:    version.UserAgent(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	retryClient := retryablehttp.NewClient()
	if o.httpClient != nil {
		retryClient.HTTPClient = o.httpClient
	} else {
		retryClient.HTTPClient.Timeout = o.timeout
	}
	retryClient.RetryMax = o.retries
	retryClient.RetryWaitMin = o.retryWaitMin
	retryClient.RetryWaitMax = o.retryWaitMax
	retryClient.Logger = retryLogger{}
	// Hand the last response back so status codes can be classified.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		URL:        endpoint,
		HTTPClient: retryClient.StandardClient(),
		UserAgent:  o.userAgent,
	}
}

// RequestURL returns the URL fetched for uid
func (c *Client) RequestURL(uid string) (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid listing URL %q: %w", c.URL, err)
	}
	q := u.Query()
	q.Set("uid", uid)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch requests the children of uid (empty for the root) and returns the
// first record of the response.
func (c *Client) Fetch(ctx context.Context, uid string) (*Record, error) {
	reqURL, err := c.RequestURL(uid)
	if err != nil {
		return nil, NewNetworkError("failed to build request URL", c.URL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create GET request", c.URL, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	logging.LogListingRequest(c.URL, uid)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("GET request failed", c.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewHTTPError(resp.StatusCode, c.URL, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", c.URL, err)
	}

	rec, err := Decode(body)
	if err != nil {
		return nil, err
	}

	logging.LogListingResponse(rec.UID, len(rec.Listing), time.Since(start))
	return rec, nil
}

// Decode parses a listing response body and returns its first record
func Decode(body []byte) (*Record, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, NewParseError("failed to parse JSON response", err)
	}
	if len(resp.Results) == 0 {
		return nil, NewProtocolError("response contains no results")
	}

	rec := resp.Results[0]
	for i, e := range rec.Listing {
		if e.UID == "" {
			return nil, NewProtocolError(fmt.Sprintf("listing entry %d (%q) has no uid", i, e.File))
		}
	}
	return &rec, nil
}

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct{}

func (retryLogger) Error(msg string, keysAndValues ...interface{}) {
	logging.GetLogger().Sugar().Errorw(msg, keysAndValues...)
}

func (retryLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.GetLogger().Sugar().Debugw(msg, keysAndValues...)
}

func (retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	logging.GetLogger().Sugar().Debugw(msg, keysAndValues...)
}

func (retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	logging.GetLogger().Sugar().Warnw(msg, keysAndValues...)
}
