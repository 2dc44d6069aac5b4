package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "ytmp3-downloader"

// ErrDecode is returned by GetJSON when the response body is not valid JSON
// for the target value.
var ErrDecode = errors.New("invalid response body")

// StatusError is returned when a server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Client wraps HTTP operations with downloader-specific configuration.
//
// Example usage:
//
//	client := NewClient(time.Minute)
//
//	// Fetch small content such as a thumbnail
//	data, err := client.Get(ctx, "https://i.ytimg.com/vi/abc123/hqdefault.jpg")
//
//	// Stream a large file
//	body, size, err := client.Open(ctx, mp3URL)
//	defer body.Close()
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client with the given overall timeout.
// A zero timeout means no timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: DefaultUserAgent,
	}
}

// NewClientWith wraps an existing *http.Client, e.g. one from httptest.
func NewClientWith(hc *http.Client) *Client {
	return &Client{httpClient: hc, userAgent: DefaultUserAgent}
}

// do sends a GET request and returns the response if its status is 2xx.
func (c *Client) do(ctx context.Context, rawURL string, query url.Values, headers map[string]string) (*http.Response, error) {
	if len(query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp, nil
}

// GetJSON performs a GET request and decodes the JSON response body into v.
//
// Query values are merged into any query already present in rawURL and
// headers are set on the request as given.
//
// Returns a *StatusError for non-2xx responses.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, v any) error {
	resp, err := c.do(ctx, rawURL, query, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// Get performs a GET request and returns the response body as bytes.
//
// Use this for small files like thumbnails. For large files like MP3s, use
// Open and stream the body to disk.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.do(ctx, rawURL, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Open performs a GET request and returns the streamed response body along
// with the advertised Content-Length (-1 if unknown).
//
// The caller must close the body. Nothing is read from it before returning,
// so the caller controls chunking.
func (c *Client) Open(ctx context.Context, rawURL string) (io.ReadCloser, int64, error) {
	resp, err := c.do(ctx, rawURL, nil, nil)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}
