package dto

import "strings"

// StatusOK is the status value of a finished conversion.
const StatusOK = "ok"

// DefaultMessage is used when a failed response carries no msg.
const DefaultMessage = "Unknown error occurred"

// JSONStatus represents a youtube-mp36 status response.
type JSONStatus struct {
	Status   string  `json:"status"`
	Msg      string  `json:"msg"`
	Link     string  `json:"link"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// IsOK reports whether the conversion finished.
func (s *JSONStatus) IsOK() bool {
	return s.Status == StatusOK
}

// IsQueued reports whether a not-ok response says the job is waiting in the
// service's queue. Matching is a case-insensitive substring test on msg.
func (s *JSONStatus) IsQueued() bool {
	return !s.IsOK() && strings.Contains(strings.ToLower(s.Msg), "queue")
}

// Message returns msg, or DefaultMessage when the service sent none.
func (s *JSONStatus) Message() string {
	if s.Msg == "" {
		return DefaultMessage
	}
	return s.Msg
}
