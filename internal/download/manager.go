package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/handiism/ytmp3-downloader/internal/audio"
	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/http"
	ioutils "github.com/handiism/ytmp3-downloader/internal/io"
	"github.com/handiism/ytmp3-downloader/internal/model"
	"github.com/handiism/ytmp3-downloader/internal/rapidapi"
	"github.com/handiism/ytmp3-downloader/internal/rapidapi/dto"
	"github.com/handiism/ytmp3-downloader/internal/youtube"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Written and Total are set on byte progress events while the MP3 is
	// streamed. Total is -1 when the server did not send a length.
	Written int64
	Total   int64
}

// Request describes one conversion job.
type Request struct {
	VideoID string
	APIKey  string
	Dir     string
	Poll    bool
}

// Manager coordinates conversion jobs.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	api          *rapidapi.Client
	tagger       *audio.Tagger
	imageService *ioutils.ImageService

	onProgress func(ProgressEvent)

	// sleep waits between polls; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error

	// requestTimeout bounds each status and thumbnail request. The MP3
	// stream has no deadline of its own.
	requestTimeout time.Duration
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	httpClient := http.NewClient(0)

	tagCfg := audio.DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags

	return &Manager{
		settings:     settings,
		httpClient:   httpClient,
		api:          rapidapi.NewClient(httpClient, settings.APIEndpoint, settings.APIHost),
		tagger:       audio.NewTagger(tagCfg),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
		sleep:        waitForPoll,

		requestTimeout: settings.Timeout(),
	}
}

// Download runs the whole workflow for req and returns the saved artifact.
//
// The first status request is always made. A queued answer is polled only
// when req.Poll is set. Any other non-ok answer is terminal. The target
// directory is created only once the MP3 request has succeeded, so a failed
// job leaves nothing on disk.
func (m *Manager) Download(ctx context.Context, req Request) (*model.Artifact, error) {
	if req.VideoID == "" {
		return nil, ErrEmptyVideoID
	}
	if req.APIKey == "" {
		return nil, config.ErrMissingAPIKey
	}
	if req.Dir == "" {
		return nil, ErrEmptyDir
	}

	job := model.NewJob(req.VideoID)
	m.logf(job, LevelVerbose, "Requesting conversion for %s", req.VideoID)

	status, err := m.convert(ctx, job, req)
	if err != nil {
		return nil, m.fail(job, err)
	}

	// A missing title falls back to the video identifier
	job.MarkReady(status.Link, status.Title)
	m.logf(job, LevelInfo, "Downloading: %s", job.DisplayTitle())

	artifact, err := m.fetch(ctx, job, req.Dir)
	if err != nil {
		return nil, m.fail(job, err)
	}
	artifact.VideoID = req.VideoID

	if m.settings.ModifyTags || m.settings.EmbedThumbnail {
		m.tag(ctx, job, artifact, status.Duration)
	}

	m.logf(job, LevelSuccess, "Download completed: %s", artifact.Path)
	return artifact, nil
}

// convert asks the service for the job status until it is ok, polling while
// queued if requested.
func (m *Manager) convert(ctx context.Context, job *model.Job, req Request) (*dto.JSONStatus, error) {
	status, err := m.requestStatus(ctx, req)
	if err != nil {
		return nil, err
	}
	if status.IsOK() {
		return checkLink(status)
	}
	if !status.IsQueued() {
		return nil, &Error{Kind: KindRemoteRejected, Message: status.Message()}
	}

	job.MarkQueued()
	if !req.Poll {
		return nil, &Error{Kind: KindRemoteQueued, Message: "in queue"}
	}

	m.logf(job, LevelInfo, "Conversion in queue. Polling for completion...")
	maxAttempts := m.settings.PollMaxAttempts
	for job.Polls < maxAttempts {
		if err := m.sleep(ctx, m.settings.PollDelay()); err != nil {
			return nil, fmt.Errorf("polling cancelled: %w", err)
		}
		job.Polls++

		status, err = m.requestStatus(ctx, req)
		if err != nil {
			return nil, err
		}
		if status.IsOK() {
			return checkLink(status)
		}
		if !status.IsQueued() {
			return nil, &Error{Kind: KindRemoteRejected, Message: status.Message()}
		}
		m.logf(job, LevelVerbose, "Polling attempt %d/%d: still in queue...", job.Polls, maxAttempts)
	}

	return nil, &Error{Kind: KindRemoteQueued, Message: "conversion is still in queue after polling"}
}

func (m *Manager) requestStatus(ctx context.Context, req Request) (*dto.JSONStatus, error) {
	ctx, cancel := m.requestContext(ctx)
	defer cancel()

	status, err := m.api.Status(ctx, req.VideoID, req.APIKey)
	if err == nil {
		return status, nil
	}
	if errors.Is(err, http.ErrDecode) {
		return nil, &Error{Kind: KindMalformedResponse, Message: "invalid response from conversion API", Err: err}
	}
	return nil, &Error{Kind: KindTransport, Message: "failed to contact conversion API", Err: err}
}

func checkLink(status *dto.JSONStatus) (*dto.JSONStatus, error) {
	if status.Link == "" {
		return nil, &Error{Kind: KindMalformedResponse, Message: "download link not found in API response"}
	}
	return status, nil
}

// fetch streams the job's media URL to <dir>/<sanitized title>.mp3.
func (m *Manager) fetch(ctx context.Context, job *model.Job, dir string) (*model.Artifact, error) {
	body, size, err := m.httpClient.Open(ctx, job.MediaURL)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "failed to download MP3", Err: err}
	}
	defer body.Close()

	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create download directory: %w", err)
	}

	artifact := model.NewArtifact(dir, job.DisplayTitle())
	reporter := m.byteReporter(job)

	written, err := ioutils.WriteStream(artifact.Path, body, size, m.settings.ChunkSize, reporter)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", artifact.FileName(), err)
	}
	artifact.Size = written

	return artifact, nil
}

// byteReporter emits a verbose event every time another tenth of the file
// has been written, or every megabyte when the length is unknown.
func (m *Manager) byteReporter(job *model.Job) func(written, total int64) {
	const unknownStep = 1 << 20
	var next int64

	return func(written, total int64) {
		if written < next {
			return
		}
		step := int64(unknownStep)
		if total > 0 {
			step = max(total/10, 1)
		}
		next = (written/step + 1) * step

		msg := fmt.Sprintf("Received %d bytes", written)
		if total > 0 {
			msg = fmt.Sprintf("Received %d / %d bytes (%d%%)", written, total, written*100/total)
		}
		m.progress(ProgressEvent{
			Message: jobPrefix(job) + msg,
			Level:   LevelVerbose,
			Written: written,
			Total:   total,
		})
	}
}

// tag writes ID3 tags and the thumbnail cover. Failures are warnings only.
func (m *Manager) tag(ctx context.Context, job *model.Job, artifact *model.Artifact, duration float64) {
	var cover []byte
	if m.settings.EmbedThumbnail && m.settings.ThumbnailURLFormat != "" {
		var err error
		cover, err = m.downloadThumbnail(ctx, job.VideoID)
		if err != nil {
			m.logf(job, LevelWarning, "Error downloading thumbnail: %v", err)
		}
	}

	if !m.settings.ModifyTags && cover == nil {
		return
	}

	meta := audio.Metadata{
		Title:     job.DisplayTitle(),
		SourceURL: youtube.WatchURL(job.VideoID),
		Duration:  duration,
	}
	if err := m.tagger.SaveTags(artifact.Path, meta, cover); err != nil {
		m.logf(job, LevelWarning, "Error tagging %s: %v", artifact.FileName(), err)
		return
	}
	m.logf(job, LevelVerbose, "Tagged %s", artifact.FileName())
}

func (m *Manager) downloadThumbnail(ctx context.Context, videoID string) ([]byte, error) {
	ctx, cancel := m.requestContext(ctx)
	defer cancel()

	data, err := m.httpClient.Get(ctx, youtube.ThumbnailURL(m.settings.ThumbnailURLFormat, videoID))
	if err != nil {
		return nil, err
	}

	// Always re-encode: covers must be JPEG even when no resize is wanted
	size := m.settings.ThumbnailMaxSize
	if size <= 0 {
		size = math.MaxInt32
	}
	return m.imageService.ResizeImage(ctx, data, size, size)
}

func (m *Manager) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.requestTimeout > 0 {
		return context.WithTimeout(ctx, m.requestTimeout)
	}
	return context.WithCancel(ctx)
}

func (m *Manager) fail(job *model.Job, err error) error {
	job.MarkFailed(err.Error())
	m.logf(job, LevelError, "Error: %v", err)
	return err
}

func waitForPoll(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func jobPrefix(job *model.Job) string {
	return "[job " + job.ShortID() + "] "
}

func (m *Manager) logf(job *model.Job, level ProgressLevel, format string, args ...any) {
	m.progress(ProgressEvent{Message: jobPrefix(job) + fmt.Sprintf(format, args...), Level: level})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
