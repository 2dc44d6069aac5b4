// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Filename sanitization
//   - Directory creation and listing
//   - Chunked stream writing with progress tracking
//   - Cover image resizing
//
// # Filename Sanitization
//
// Use SanitizeFileName to replace characters that are invalid in file names:
//
//	safe := ioutils.SanitizeFileName("My:Song/Test") // Returns "My_Song_Test"
//
// # Streaming
//
// WriteStream copies a reader to disk in fixed-size chunks so memory use
// stays bounded regardless of file size:
//
//	n, err := ioutils.WriteStream(path, resp.Body, resp.ContentLength, 1024, func(written, total int64) {
//	    fmt.Printf("%d bytes\n", written)
//	})
//
// # Image Processing
//
// The ImageService shrinks thumbnails before they are embedded as cover art:
//
//	svc := ioutils.NewImageService()
//	cover, _ := svc.ResizeImage(ctx, thumbnail, 500, 500)
package ioutils
