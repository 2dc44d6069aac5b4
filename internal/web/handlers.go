package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/handiism/ytmp3-downloader/internal/audio"
	"github.com/handiism/ytmp3-downloader/internal/download"
	ioutils "github.com/handiism/ytmp3-downloader/internal/io"
	"github.com/handiism/ytmp3-downloader/internal/model"
	"github.com/handiism/ytmp3-downloader/internal/youtube"
)

// MsgMissingVideo is shown when the form is submitted without a video.
const MsgMissingVideo = "Please provide a video URL or ID."

type indexPage struct {
	Title    string
	Video    string
	Poll     bool
	Message  string
	IsError  bool
	FileURL  string
	FileName string
}

type fileRow struct {
	Name string
	URL  string
	Size string
}

type downloadsPage struct {
	Title string
	Files []fileRow
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, s.indexTmpl, indexPage{Title: "Youtube -> mp3"})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Title: "Youtube -> mp3"}

	video := strings.TrimSpace(r.FormValue("video"))
	if video == "" {
		page.Message = MsgMissingVideo
		page.IsError = true
		s.render(w, s.indexTmpl, page)
		return
	}

	apiKey := r.FormValue("api_key")
	if apiKey == "" {
		apiKey = s.settings.APIKey
	}

	req := download.Request{
		VideoID: youtube.ExtractVideoID(video),
		APIKey:  apiKey,
		Dir:     s.settings.DownloadDir,
		Poll:    r.FormValue("poll") == "yes",
	}
	page.Video = video
	page.Poll = req.Poll

	artifact, err := s.download(r.Context(), req)
	if errors.Is(err, errClientGone) {
		return
	}
	if err != nil {
		page.Message = "Error: " + err.Error()
		page.IsError = true
		s.render(w, s.indexTmpl, page)
		return
	}

	page.Message = fmt.Sprintf("Downloaded '%s' for video '%s'.", artifact.Title, req.VideoID)
	page.FileName = artifact.FileName()
	page.FileURL = fileURL(artifact.FileName())
	s.render(w, s.indexTmpl, page)
}

var errClientGone = errors.New("client went away")

// download runs req, sharing one run between identical submissions. The run
// is detached from any single request so a disconnecting client does not
// fail the others; it is bounded by the server's job timeout instead.
func (s *Server) download(ctx context.Context, req download.Request) (*model.Artifact, error) {
	ch := s.inflight.DoChan(inflightKey(req), func() (any, error) {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.jobTimeout)
		defer cancel()
		return s.downloader.Download(jobCtx, req)
	})

	select {
	case res := <-ch:
		if res.Shared {
			log.Printf("Joined in-flight download for %s", req.VideoID)
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Artifact), nil
	case <-ctx.Done():
		return nil, errClientGone
	}
}

// inflightKey identifies submissions that would produce the same run.
func inflightKey(req download.Request) string {
	return fmt.Sprintf("%s\x00%s\x00%t", req.VideoID, req.APIKey, req.Poll)
}

func (s *Server) handleDownloads(w http.ResponseWriter, r *http.Request) {
	files, err := ioutils.ListFiles(s.settings.DownloadDir, model.Extension)
	if err != nil {
		log.Printf("Error listing %s: %v", s.settings.DownloadDir, err)
		http.Error(w, "Unable to list downloads", http.StatusInternalServerError)
		return
	}

	page := downloadsPage{Title: "Downloads"}
	for _, f := range files {
		page.Files = append(page.Files, fileRow{
			Name: f.Name,
			URL:  fileURL(f.Name),
			Size: fmt.Sprintf("%.2f MB", float64(f.Size)/1024/1024),
		})
	}
	s.render(w, s.downloadsTmpl, page)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name, err := safeFileName(mux.Vars(r)["filename"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := os.Open(filepath.Join(s.settings.DownloadDir, name))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(name)))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	format := model.ParsePlaylistFormat(mux.Vars(r)["format"])

	files, err := ioutils.ListFiles(s.settings.DownloadDir, model.Extension)
	if err != nil {
		log.Printf("Error listing %s: %v", s.settings.DownloadDir, err)
		http.Error(w, "Unable to list downloads", http.StatusInternalServerError)
		return
	}

	artifacts := make([]*model.Artifact, 0, len(files))
	for _, f := range files {
		artifacts = append(artifacts, &model.Artifact{
			Name: strings.TrimSuffix(f.Name, filepath.Ext(f.Name)),
			Path: f.Path,
			Size: f.Size,
		})
	}

	creator := audio.NewPlaylistCreator(format, true, baseURL(r)+"/downloads/")

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=downloads"+format.Extension())
	w.Write([]byte(creator.CreatePlaylist(artifacts)))
}

func (s *Server) render(w http.ResponseWriter, t *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("Error rendering page: %v", err)
	}
}

// safeFileName rejects names that would escape the download directory.
func safeFileName(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", errors.New("invalid file name")
	}
	return name, nil
}

func fileURL(name string) string {
	return "/downloads/" + url.PathEscape(name)
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
