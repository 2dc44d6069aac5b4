package rapidapi

import (
	"context"
	"net/url"

	"github.com/handiism/ytmp3-downloader/internal/http"
	"github.com/handiism/ytmp3-downloader/internal/rapidapi/dto"
)

const (
	// DefaultEndpoint is the youtube-mp36 conversion endpoint.
	DefaultEndpoint = "https://youtube-mp36.p.rapidapi.com/dl"

	// DefaultHost is sent as x-rapidapi-host.
	DefaultHost = "youtube-mp36.p.rapidapi.com"
)

// Client requests conversion status from the youtube-mp36 service.
type Client struct {
	http     *http.Client
	endpoint string
	host     string
}

// NewClient creates a Client for the given endpoint and RapidAPI host.
func NewClient(httpClient *http.Client, endpoint, host string) *Client {
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		host:     host,
	}
}

// Status issues a single conversion request for videoID.
//
// The credential travels in the x-rapidapi-key header and the identifier in
// the id query parameter. Transport failures and non-2xx answers are
// returned as errors from the http package (*http.StatusError,
// http.ErrDecode, or the underlying network error).
func (c *Client) Status(ctx context.Context, videoID, apiKey string) (*dto.JSONStatus, error) {
	headers := map[string]string{
		"x-rapidapi-key":  apiKey,
		"x-rapidapi-host": c.host,
	}

	var status dto.JSONStatus
	if err := c.http.GetJSON(ctx, c.endpoint, url.Values{"id": {videoID}}, headers, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
