// Package youtube turns free-form user input into YouTube video identifiers.
package youtube

import (
	"fmt"
	"regexp"
)

var videoIDPattern = regexp.MustCompile(`v=([^&]+)`)

// ExtractVideoID returns the video identifier contained in input.
//
// When input contains "v=" followed by one or more characters other than
// "&", that run is the identifier. Anything else is assumed to already be a
// bare identifier and is returned unchanged. The identifier's shape is not
// validated; a malformed one is rejected later by the conversion service.
//
// Example:
//
//	ExtractVideoID("https://youtu.be/watch?v=abc123&list=xyz") // "abc123"
//	ExtractVideoID("abc123")                                   // "abc123"
func ExtractVideoID(input string) string {
	if m := videoIDPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}

// WatchURL returns the canonical watch page for a video identifier.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ThumbnailURL fills a format such as "https://i.ytimg.com/vi/%s/hqdefault.jpg"
// with the video identifier.
func ThumbnailURL(format, videoID string) string {
	return fmt.Sprintf(format, videoID)
}
