package ioutils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultChunkSize is the read size used by WriteStream when none is given.
const DefaultChunkSize = 1024

var invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFileName replaces characters that are invalid in file names.
//
// Each of < > : " / \ | ? * becomes an underscore. Every other character,
// including spaces and unicode, is kept as is, so the result has the same
// number of characters as the input. Applying it twice gives the same
// result as applying it once.
//
// Example:
//
//	SanitizeFileName("My:Song/Test")   // Returns "My_Song_Test"
//	SanitizeFileName("What? <Live>")   // Returns "What_ _Live_"
func SanitizeFileName(name string) string {
	return invalidChars.ReplaceAllString(name, "_")
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ProgressWriter wraps a writer to track download progress.
//
// Example:
//
//	pw := &ProgressWriter{
//	    Writer: file,
//	    Total:  contentLength,
//	    OnUpdate: func(written, total int64) {
//	        fmt.Printf("%d / %d bytes\n", written, total)
//	    },
//	}
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header), -1 if unknown.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// WriteStream writes r to path in chunks of at most chunkSize bytes.
//
// The file is created, or truncated if it exists. Empty reads are skipped.
// If copying fails the partially written file is removed.
//
// Parameters:
//   - path: Destination file path (parent directory must exist)
//   - r: Source stream, typically an HTTP response body
//   - total: Expected size for progress reporting, -1 if unknown
//   - chunkSize: Read size; values <= 0 use DefaultChunkSize
//   - onProgress: Optional callback, nil to disable
//
// Returns the number of bytes written.
func WriteStream(path string, r io.Reader, total int64, chunkSize int, onProgress func(written, total int64)) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	pw := &ProgressWriter{Writer: file, Total: total, OnUpdate: onProgress}
	buf := make([]byte, chunkSize)

	var copyErr error
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := pw.Write(buf[:n]); werr != nil {
				copyErr = werr
				break
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			copyErr = rerr
			break
		}
	}

	if closeErr := file.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(path)
		return pw.Written, copyErr
	}

	return pw.Written, nil
}

// FileEntry describes a file found by ListFiles.
type FileEntry struct {
	Name string
	Path string
	Size int64
}

// ListFiles returns the regular files in dir whose names end with ext,
// sorted by name. A missing directory yields an empty list.
func ListFiles(dir, ext string) ([]FileEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileEntry
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileEntry{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
