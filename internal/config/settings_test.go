package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.APIKey != "" {
		t.Errorf("APIKey = %q, want no built-in key", s.APIKey)
	}
	if s.PollMaxAttempts != 12 {
		t.Errorf("PollMaxAttempts = %d, want 12", s.PollMaxAttempts)
	}
	if s.PollDelay() != 5*time.Second {
		t.Errorf("PollDelay() = %v, want 5s", s.PollDelay())
	}
	if s.ChunkSize != 1024 {
		t.Errorf("ChunkSize = %d, want 1024", s.ChunkSize)
	}
	if s.ModifyTags || s.EmbedThumbnail {
		t.Errorf("ModifyTags = %v, EmbedThumbnail = %v, want tagging off by default", s.ModifyTags, s.EmbedThumbnail)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if !errors.Is(s.RequireAPIKey(), ErrMissingAPIKey) {
		t.Errorf("RequireAPIKey() = %v, want ErrMissingAPIKey", s.RequireAPIKey())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.DownloadDir != "downloads" {
		t.Errorf("DownloadDir = %q, want %q", s.DownloadDir, "downloads")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	s := DefaultSettings()
	s.DownloadDir = "/music/yt"
	s.Poll = true
	s.PollMaxAttempts = 3
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DownloadDir != "/music/yt" || !loaded.Poll || loaded.PollMaxAttempts != 3 {
		t.Errorf("loaded settings = %+v", loaded)
	}
	if loaded.ChunkSize != 1024 {
		t.Errorf("ChunkSize = %d, want default 1024", loaded.ChunkSize)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"poll": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !s.Poll {
		t.Error("Poll = false, want true")
	}
	if s.PollMaxAttempts != 12 {
		t.Errorf("PollMaxAttempts = %d, want 12", s.PollMaxAttempts)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{poll`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error but got none")
	}
}

func TestLoadEnvAndApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("RAPIDAPI_KEY=from-dotenv\nYTMP3_DOWNLOAD_DIR=/tmp/yt\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)
	t.Setenv(EnvDownloadDir, "")
	os.Unsetenv(EnvDownloadDir)

	if err := LoadEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}

	s := DefaultSettings()
	s.ApplyEnv()
	if s.APIKey != "from-dotenv" {
		t.Errorf("APIKey = %q, want %q", s.APIKey, "from-dotenv")
	}
	if s.DownloadDir != "/tmp/yt" {
		t.Errorf("DownloadDir = %q, want %q", s.DownloadDir, "/tmp/yt")
	}
	if err := s.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"empty endpoint", func(s *Settings) { s.APIEndpoint = "" }},
		{"empty dir", func(s *Settings) { s.DownloadDir = "" }},
		{"negative attempts", func(s *Settings) { s.PollMaxAttempts = -1 }},
		{"negative delay", func(s *Settings) { s.PollDelaySeconds = -1 }},
		{"zero chunk", func(s *Settings) { s.ChunkSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			if err := s.Validate(); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"download_dir": "from-file", "poll": true}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDownloadDir, "from-env")
	t.Setenv(EnvAPIKey, "env-key")

	s, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if s.DownloadDir != "from-env" {
		t.Errorf("DownloadDir = %q, want env to win over file", s.DownloadDir)
	}
	if !s.Poll {
		t.Error("Poll = false, want value from file")
	}
	if s.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want %q", s.APIKey, "env-key")
	}

	if _, err := Resolve(filepath.Join(dir, "missing.json")); err != nil {
		t.Errorf("missing config file should fall back to defaults, got %v", err)
	}
}
