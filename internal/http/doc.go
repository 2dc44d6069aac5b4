// Package http provides the HTTP client shared by the conversion API
// client and the media downloader.
//
// The Client in this package handles:
//   - User-Agent and per-request headers
//   - JSON response decoding
//   - Streamed bodies for large media files
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(5 * time.Minute)
//
//	// Decode a JSON API response
//	var out statusResponse
//	err := client.GetJSON(ctx, apiURL, query, headers, &out)
//
//	// Stream a file; the caller closes the body
//	body, size, err := client.Open(ctx, mp3URL)
//
// Non-2xx responses are reported as *StatusError.
package http
