package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/download"
	"github.com/handiism/ytmp3-downloader/internal/model"
	"golang.org/x/sync/singleflight"
)

//go:embed templates/*.html
var templateFS embed.FS

// Downloader runs one conversion job. *download.Manager implements it.
type Downloader interface {
	Download(ctx context.Context, req download.Request) (*model.Artifact, error)
}

// DefaultJobTimeout bounds a shared download once no single submitter
// owns it any more.
const DefaultJobTimeout = 10 * time.Minute

// Server holds the web front end's dependencies.
type Server struct {
	settings   *config.Settings
	downloader Downloader

	// inflight collapses concurrent identical submissions
	inflight   singleflight.Group
	jobTimeout time.Duration

	indexTmpl     *template.Template
	downloadsTmpl *template.Template
}

// NewServer creates a Server that saves files to settings.DownloadDir.
func NewServer(settings *config.Settings, downloader Downloader) (*Server, error) {
	index, err := template.ParseFS(templateFS, "templates/layout.html", "templates/index.html")
	if err != nil {
		return nil, err
	}
	downloads, err := template.ParseFS(templateFS, "templates/layout.html", "templates/downloads.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		settings:      settings,
		downloader:    downloader,
		jobTimeout:    DefaultJobTimeout,
		indexTmpl:     index,
		downloadsTmpl: downloads,
	}, nil
}

// Handler returns the router wrapped in recovery and, when accessLog is not
// nil, Apache combined-format request logging.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/downloads", s.handleDownloads).Methods(http.MethodGet)
	r.HandleFunc("/downloads.{format:m3u|pls}", s.handlePlaylist).Methods(http.MethodGet)
	r.HandleFunc("/downloads/{filename}", s.handleFile).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if accessLog != nil {
		h = handlers.CombinedLoggingHandler(accessLog, h)
	}
	return h
}
