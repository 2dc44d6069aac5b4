package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/download"
	"github.com/handiism/ytmp3-downloader/internal/model"
)

type stubDownloader struct {
	mu       sync.Mutex
	requests []download.Request
	artifact *model.Artifact
	err      error

	// When release is set, every call reports on started and then blocks
	// until release is closed.
	started chan struct{}
	release chan struct{}
}

func (d *stubDownloader) Download(ctx context.Context, req download.Request) (*model.Artifact, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()

	if d.release != nil {
		d.started <- struct{}{}
		<-d.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.artifact, d.err
}

func (d *stubDownloader) calls() []download.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]download.Request(nil), d.requests...)
}

func newBlockingDownloader() *stubDownloader {
	return &stubDownloader{
		artifact: &model.Artifact{Title: "Song", Name: "Song", Path: "downloads/Song.mp3"},
		started:  make(chan struct{}, 4),
		release:  make(chan struct{}),
	}
}

// submitAsync posts form with ctx and returns a channel yielding the response.
func submitAsync(s *Server, ctx context.Context, form url.Values) <-chan *httptest.ResponseRecorder {
	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- serve(s, postForm(form).WithContext(ctx))
	}()
	return done
}

func waitStarted(t *testing.T, d *stubDownloader) {
	t.Helper()
	select {
	case <-d.started:
	case <-time.After(5 * time.Second):
		t.Fatal("download did not start")
	}
}

func newTestServer(t *testing.T, d *stubDownloader) (*Server, string) {
	t.Helper()
	settings := config.DefaultSettings()
	settings.APIKey = "configured-key"
	settings.DownloadDir = t.TempDir()

	s, err := NewServer(settings, d)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s, settings.DownloadDir
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler(nil).ServeHTTP(rec, req)
	return rec
}

func postForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, &stubDownloader{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`name="video"`, `name="api_key"`, `name="poll"`, "YouTube to MP3 Downloader"} {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func TestSubmit_MissingVideo(t *testing.T) {
	d := &stubDownloader{}
	s, _ := newTestServer(t, d)

	rec := serve(s, postForm(url.Values{"video": {"  "}}))

	if !strings.Contains(rec.Body.String(), MsgMissingVideo) {
		t.Errorf("body does not contain %q", MsgMissingVideo)
	}
	if len(d.requests) != 0 {
		t.Errorf("downloader called %d times, want 0", len(d.requests))
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		wantKey  string
		wantPoll bool
	}{
		{
			name:    "configured key",
			form:    url.Values{"video": {"https://youtu.be/watch?v=abc123&list=xyz"}},
			wantKey: "configured-key",
		},
		{
			name:     "form key and poll",
			form:     url.Values{"video": {"abc123"}, "api_key": {"form-key"}, "poll": {"yes"}},
			wantKey:  "form-key",
			wantPoll: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &stubDownloader{artifact: &model.Artifact{
				Title: "My:Song/Test",
				Name:  "My_Song_Test",
				Path:  "downloads/My_Song_Test.mp3",
			}}
			s, dir := newTestServer(t, d)

			rec := serve(s, postForm(tt.form))

			if len(d.requests) != 1 {
				t.Fatalf("downloader called %d times, want 1", len(d.requests))
			}
			got := d.requests[0]
			if got.VideoID != "abc123" {
				t.Errorf("VideoID = %q, want %q", got.VideoID, "abc123")
			}
			if got.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", got.APIKey, tt.wantKey)
			}
			if got.Poll != tt.wantPoll {
				t.Errorf("Poll = %v, want %v", got.Poll, tt.wantPoll)
			}
			if got.Dir != dir {
				t.Errorf("Dir = %q, want %q", got.Dir, dir)
			}

			body := rec.Body.String()
			if !strings.Contains(body, "Downloaded &#39;My:Song/Test&#39;") {
				t.Errorf("body does not contain the success message:\n%s", body)
			}
			if !strings.Contains(body, `href="/downloads/My_Song_Test.mp3"`) {
				t.Error("body does not link the saved file")
			}
		})
	}
}

func TestSubmit_Error(t *testing.T) {
	d := &stubDownloader{err: &download.Error{Kind: download.KindRemoteRejected, Message: "Invalid Video Id"}}
	s, _ := newTestServer(t, d)

	rec := serve(s, postForm(url.Values{"video": {"bad"}}))

	body := rec.Body.String()
	if !strings.Contains(body, "Error: Invalid Video Id") {
		t.Errorf("body does not contain the error message:\n%s", body)
	}
	if !strings.Contains(body, `class="message error"`) {
		t.Error("error message should be styled as error")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDownloadsList(t *testing.T) {
	s, dir := newTestServer(t, &stubDownloader{})
	writeFile(t, dir, "Song One.mp3", "one")
	writeFile(t, dir, "notes.txt", "ignored")

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/downloads", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `href="/downloads/Song%20One.mp3"`) {
		t.Errorf("body does not link the mp3:\n%s", body)
	}
	if strings.Contains(body, "notes.txt") {
		t.Error("non-mp3 files should not be listed")
	}
}

func TestDownloadsList_Empty(t *testing.T) {
	s, _ := newTestServer(t, &stubDownloader{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/downloads", nil))

	if !strings.Contains(rec.Body.String(), "No downloads yet.") {
		t.Error("empty list message missing")
	}
}

func TestServeFile(t *testing.T) {
	s, dir := newTestServer(t, &stubDownloader{})
	writeFile(t, dir, "Song One.mp3", "audio-bytes")

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/downloads/Song%20One.mp3", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment;") {
		t.Errorf("Content-Disposition = %q, want attachment", got)
	}
	if body, _ := io.ReadAll(rec.Body); string(body) != "audio-bytes" {
		t.Errorf("body = %q, want %q", body, "audio-bytes")
	}
}

func TestServeFile_NotFound(t *testing.T) {
	s, _ := newTestServer(t, &stubDownloader{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/downloads/missing.mp3", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Song One.mp3", false},
		{"Ünïcödé ♪.mp3", false},
		{"", true},
		{".", true},
		{"..", true},
		{"../secret.mp3", true},
		{`..\secret.mp3`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := safeFileName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("safeFileName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestPlaylist(t *testing.T) {
	s, dir := newTestServer(t, &stubDownloader{})
	writeFile(t, dir, "Song One.mp3", "one")
	writeFile(t, dir, "Two.mp3", "two")

	tests := []struct {
		path        string
		contentType string
		want        []string
	}{
		{
			path:        "/downloads.m3u",
			contentType: "audio/x-mpegurl",
			want:        []string{"#EXTM3U", "#EXTINF:-1,Song One", "http://example.com/downloads/Song%20One.mp3", "http://example.com/downloads/Two.mp3"},
		},
		{
			path:        "/downloads.pls",
			contentType: "audio/x-scpls",
			want:        []string{"[playlist]", "File1=http://example.com/downloads/Song%20One.mp3", "NumberOfEntries=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(s, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			body := rec.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("playlist does not contain %q:\n%s", want, body)
				}
			}
		})
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, &stubDownloader{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestAccessLog(t *testing.T) {
	s, _ := newTestServer(t, &stubDownloader{})
	var logBuf strings.Builder

	rec := httptest.NewRecorder()
	s.Handler(&logBuf).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !strings.Contains(logBuf.String(), `"GET /health HTTP/1.1" 200`) {
		t.Errorf("access log = %q", logBuf.String())
	}
}

func TestSubmit_MissingKeyError(t *testing.T) {
	d := &stubDownloader{err: config.ErrMissingAPIKey}
	s, _ := newTestServer(t, d)

	rec := serve(s, postForm(url.Values{"video": {"abc123"}}))

	if !strings.Contains(rec.Body.String(), "missing RapidAPI key") {
		t.Error("missing key error should be shown")
	}
}

func TestSubmit_DifferentKeysRunSeparately(t *testing.T) {
	d := newBlockingDownloader()
	s, _ := newTestServer(t, d)

	first := submitAsync(s, context.Background(), url.Values{"video": {"abc123"}})
	waitStarted(t, d)
	second := submitAsync(s, context.Background(), url.Values{"video": {"abc123"}, "api_key": {"other-key"}})
	waitStarted(t, d)
	close(d.release)
	<-first
	<-second

	calls := d.calls()
	if len(calls) != 2 {
		t.Fatalf("downloader called %d times, want 2", len(calls))
	}
	keys := map[string]bool{calls[0].APIKey: true, calls[1].APIKey: true}
	if !keys["configured-key"] || !keys["other-key"] {
		t.Errorf("API keys = %v, want both submitters' keys", keys)
	}
}

func TestSubmit_JoinedRequestSurvivesFirstDisconnect(t *testing.T) {
	d := newBlockingDownloader()
	s, _ := newTestServer(t, d)
	form := url.Values{"video": {"abc123"}}

	ctx, cancel := context.WithCancel(context.Background())
	first := submitAsync(s, ctx, form)
	waitStarted(t, d)
	second := submitAsync(s, context.Background(), form)

	// Give the second submission time to join the running download
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-first
	close(d.release)

	rec := <-second
	body := rec.Body.String()
	if strings.Contains(body, "context canceled") {
		t.Fatalf("second submission failed with the first one's cancellation:\n%s", body)
	}
	if !strings.Contains(body, "Downloaded &#39;Song&#39;") {
		t.Errorf("body does not contain the success message:\n%s", body)
	}
}

func TestInflightKey(t *testing.T) {
	base := download.Request{VideoID: "abc123", APIKey: "k", Poll: false}

	tests := []struct {
		name string
		req  download.Request
		same bool
	}{
		{"identical", base, true},
		{"other key", download.Request{VideoID: "abc123", APIKey: "k2"}, false},
		{"poll", download.Request{VideoID: "abc123", APIKey: "k", Poll: true}, false},
		{"other video", download.Request{VideoID: "xyz", APIKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inflightKey(tt.req) == inflightKey(base); got != tt.same {
				t.Errorf("same key = %v, want %v", got, tt.same)
			}
		})
	}
}
