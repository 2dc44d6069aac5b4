// Package download provides the orchestration logic that turns a YouTube
// video identifier into an MP3 file on disk via the youtube-mp36 conversion
// service.
//
// # Manager
//
// The Manager drives a single conversion job to completion:
//
//  1. Request the conversion status for the video
//  2. Poll while the service reports the job as queued (optional)
//  3. Stream the converted MP3 to the target directory
//  4. Tag the file with ID3 metadata and cover art (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	artifact, err := manager.Download(ctx, download.Request{
//	    VideoID: "dQw4w9WgXcQ",
//	    APIKey:  settings.APIKey,
//	    Dir:     settings.DownloadDir,
//	    Poll:    true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Saved", artifact.Path)
//
// # Errors
//
// Every failure is returned as a value. Failures of the conversion workflow
// are *Error values whose Kind can be matched with errors.Is:
//
//	switch {
//	case errors.Is(err, download.ErrRemoteQueued):
//	    // try again later, or pass Poll: true
//	case errors.Is(err, download.ErrRemoteRejected):
//	    // the service refused the video
//	}
//
// # Polling
//
// Polling is the only retry mechanism. After the first queued answer the
// Manager waits settings.PollDelay() and asks again, at most
// settings.PollMaxAttempts times. The wait returns early when ctx is done.
//
// # Concurrency
//
// A Manager holds no per-job state and may be shared. Concurrent jobs whose
// titles sanitize to the same file name overwrite each other.
package download
