// Package web serves the single-page download form and the files it saved.
//
// Routes:
//
//	GET  /                      the form
//	POST /                      run a download and show the result inline
//	GET  /downloads             list saved MP3 files
//	GET  /downloads/{filename}  one saved file, as an attachment
//	GET  /downloads.m3u         every saved file as an M3U playlist
//	GET  /downloads.pls         every saved file as a PLS playlist
//	GET  /health                liveness probe
//
// Submissions with the same video, API key and poll option that arrive while
// a download is running share its result instead of starting another
// conversion. The shared run does not stop when one submitter disconnects.
package web
