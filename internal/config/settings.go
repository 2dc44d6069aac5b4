package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/handiism/ytmp3-downloader/internal/rapidapi"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "RAPIDAPI_KEY"
	EnvDownloadDir = "YTMP3_DOWNLOAD_DIR"
	EnvListenAddr  = "YTMP3_LISTEN_ADDR"
)

// ErrMissingAPIKey is returned when no RapidAPI key has been configured.
var ErrMissingAPIKey = errors.New("missing RapidAPI key: pass -api-key or set " + EnvAPIKey)

// Settings holds all configuration options.
type Settings struct {
	// Conversion service
	APIKey         string `json:"api_key,omitempty"`
	APIEndpoint    string `json:"api_endpoint"`
	APIHost        string `json:"api_host"`
	RequestTimeout int    `json:"request_timeout_seconds"`

	// Polling
	Poll             bool    `json:"poll"`
	PollMaxAttempts  int     `json:"poll_max_attempts"`
	PollDelaySeconds float64 `json:"poll_delay_seconds"`

	// Download settings
	DownloadDir string `json:"download_dir"`
	ChunkSize   int    `json:"chunk_size"`

	// Tag settings
	ModifyTags         bool   `json:"modify_tags"`
	EmbedThumbnail     bool   `json:"embed_thumbnail"`
	ThumbnailURLFormat string `json:"thumbnail_url_format"`
	ThumbnailMaxSize   int    `json:"thumbnail_max_size"`

	// Web server
	ListenAddr     string `json:"listen_addr"`
	PlaylistFormat string `json:"playlist_format"` // m3u, pls
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIEndpoint:    rapidapi.DefaultEndpoint,
		APIHost:        rapidapi.DefaultHost,
		RequestTimeout: 300,

		Poll:             false,
		PollMaxAttempts:  12,
		PollDelaySeconds: 5,

		DownloadDir: "downloads",
		ChunkSize:   1024,

		// Tagging rewrites the saved file, so it is opt-in
		ModifyTags:         false,
		EmbedThumbnail:     false,
		ThumbnailURLFormat: "https://i.ytimg.com/vi/%s/hqdefault.jpg",
		ThumbnailMaxSize:   500,

		ListenAddr:     "127.0.0.1:5000",
		PlaylistFormat: "m3u",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// LoadEnv loads variables from .env files into the process environment.
// With no arguments it reads ./.env. Missing files are not an error and
// variables already set in the environment are never overridden.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings with values from the environment.
func (s *Settings) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv(EnvDownloadDir); v != "" {
		s.DownloadDir = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		s.ListenAddr = v
	}
}

// Validate checks that numeric settings are usable.
func (s *Settings) Validate() error {
	switch {
	case s.APIEndpoint == "":
		return errors.New("api_endpoint must not be empty")
	case s.DownloadDir == "":
		return errors.New("download_dir must not be empty")
	case s.PollMaxAttempts < 0:
		return fmt.Errorf("poll_max_attempts must not be negative, got %d", s.PollMaxAttempts)
	case s.PollDelaySeconds < 0:
		return fmt.Errorf("poll_delay_seconds must not be negative, got %v", s.PollDelaySeconds)
	case s.ChunkSize <= 0:
		return fmt.Errorf("chunk_size must be positive, got %d", s.ChunkSize)
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (s *Settings) RequireAPIKey() error {
	if s.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// PollDelay returns the pause between status checks.
func (s *Settings) PollDelay() time.Duration {
	return time.Duration(s.PollDelaySeconds * float64(time.Second))
}

// Timeout returns the deadline for a single status or thumbnail request.
// The MP3 stream itself is bounded only by the caller's context.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Resolve builds the effective settings for a binary: .env is loaded, then
// the JSON file at path (defaults when path is empty or missing), then
// environment overrides. Command line flags are applied by the caller.
func Resolve(path string) (*Settings, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	settings := DefaultSettings()
	if path != "" {
		var err error
		settings, err = Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	settings.ApplyEnv()
	return settings, nil
}
