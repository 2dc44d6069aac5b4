// Package model defines the core data structures used throughout
// the ytmp3-downloader application.
//
// # Job
//
// Job tracks a single conversion request against the remote service:
//
//	job := model.NewJob("dQw4w9WgXcQ")
//	job.MarkQueued()
//	job.MarkReady(link, "Never Gonna Give You Up")
//	fmt.Println(job.Status) // ready
//
// A job moves pending → queued → ready|failed, or straight from pending to
// ready|failed. Ready and failed are terminal.
//
// # Artifact
//
// Artifact describes the MP3 saved on disk for a ready job:
//
//	artifact := model.NewArtifact("downloads", "My:Song/Test")
//	fmt.Println(artifact.Path) // downloads/My_Song_Test.mp3
package model
