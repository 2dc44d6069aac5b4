package model

import (
	"path/filepath"

	ioutils "github.com/handiism/ytmp3-downloader/internal/io"
)

// Extension is the file extension of every saved artifact.
const Extension = ".mp3"

// Artifact is an MP3 file saved to the download directory.
//
// The file name is derived from the title reported by the service. Two jobs
// reporting the same title share a path; the last writer wins.
type Artifact struct {
	// VideoID is the identifier the artifact was converted from.
	VideoID string

	// Title is the unsanitized title reported by the service.
	Title string

	// Name is the sanitized display name, without extension.
	Name string

	// Path is the full local path, including the .mp3 extension.
	Path string

	// Size is the number of bytes written.
	Size int64
}

// NewArtifact computes the artifact name and path for a title inside dir.
func NewArtifact(dir, title string) *Artifact {
	name := ioutils.SanitizeFileName(title)
	return &Artifact{
		Title: title,
		Name:  name,
		Path:  filepath.Join(dir, name+Extension),
	}
}

// FileName returns the base file name, e.g. "My_Song_Test.mp3".
func (a *Artifact) FileName() string {
	return filepath.Base(a.Path)
}
