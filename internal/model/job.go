package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a conversion job.
type Status string

const (
	// StatusPending means the first request to the service has not been answered yet.
	StatusPending Status = "pending"

	// StatusQueued means the service accepted the job but has not finished converting.
	StatusQueued Status = "queued"

	// StatusReady means the service returned a download link.
	StatusReady Status = "ready"

	// StatusFailed means the job ended without a usable download link.
	StatusFailed Status = "failed"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// IsFinished returns true for the terminal states ready and failed.
func (s Status) IsFinished() bool {
	return s == StatusReady || s == StatusFailed
}

// Job represents one outstanding request to the conversion service.
//
// Jobs are created per invocation and are never persisted. ID exists only
// to correlate log lines belonging to the same request.
type Job struct {
	ID      string
	VideoID string
	Status  Status

	// MediaURL is the download link reported by the service once ready.
	MediaURL string

	// Title is the human readable title reported by the service.
	Title string

	// Error holds the failure message when Status is StatusFailed.
	Error string

	// Polls counts the status re-checks issued after the first request.
	Polls int

	CreatedAt  time.Time
	FinishedAt time.Time
}

// NewJob creates a pending job for the given video identifier.
func NewJob(videoID string) *Job {
	return &Job{
		ID:        uuid.New().String(),
		VideoID:   videoID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// ShortID returns the first eight characters of the job ID for log prefixes.
func (j *Job) ShortID() string {
	if len(j.ID) < 8 {
		return j.ID
	}
	return j.ID[:8]
}

// MarkQueued moves a pending job to queued. Finished jobs are left untouched.
func (j *Job) MarkQueued() {
	if j.Status.IsFinished() {
		return
	}
	j.Status = StatusQueued
}

// MarkReady records the download link and title and finishes the job.
func (j *Job) MarkReady(mediaURL, title string) {
	if j.Status.IsFinished() {
		return
	}
	j.Status = StatusReady
	j.MediaURL = mediaURL
	j.Title = title
	j.FinishedAt = time.Now()
}

// MarkFailed records the failure message and finishes the job.
func (j *Job) MarkFailed(msg string) {
	if j.Status.IsFinished() {
		return
	}
	j.Status = StatusFailed
	j.Error = msg
	j.FinishedAt = time.Now()
}

// DisplayTitle returns the reported title, falling back to the video identifier.
func (j *Job) DisplayTitle() string {
	if j.Title != "" {
		return j.Title
	}
	return j.VideoID
}
