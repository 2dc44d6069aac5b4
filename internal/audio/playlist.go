package audio

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/handiism/ytmp3-downloader/internal/model"
)

// PlaylistCreator generates playlists for downloaded artifacts.
//
// Entries are the artifact file names, URL-escaped and prefixed with
// baseURL, so a playlist served by the web front end plays directly from
// its /downloads/ route. An empty baseURL yields bare file names suitable
// for a playlist saved next to the files.
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool
	baseURL  string
}

// NewPlaylistCreator creates a new PlaylistCreator.
//
// Parameters:
//   - format: The playlist format to generate
//   - extended: For M3U format, whether to include #EXTINF lines
//   - baseURL: Prefix for every entry, e.g. "http://host/downloads/"
func NewPlaylistCreator(format model.PlaylistFormat, extended bool, baseURL string) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
		baseURL:  baseURL,
	}
}

// CreatePlaylist generates playlist content for the given artifacts.
func (p *PlaylistCreator) CreatePlaylist(artifacts []*model.Artifact) string {
	switch p.format {
	case model.PlaylistFormatPLS:
		return p.createPLS(artifacts)
	default:
		return p.createM3U(artifacts)
	}
}

func (p *PlaylistCreator) entry(a *model.Artifact) string {
	if p.baseURL == "" {
		return a.FileName()
	}
	return p.baseURL + url.PathEscape(a.FileName())
}

// createM3U generates an M3U playlist.
//
// Extended M3U format (when extended=true):
//
//	#EXTM3U
//	#EXTINF:-1,Title
//	Title.mp3
func (p *PlaylistCreator) createM3U(artifacts []*model.Artifact) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}

	for _, a := range artifacts {
		if p.extended {
			sb.WriteString(fmt.Sprintf("#EXTINF:-1,%s\n", a.Name))
		}
		sb.WriteString(p.entry(a) + "\n")
	}

	return sb.String()
}

// createPLS generates a PLS playlist.
//
//	[playlist]
//	File1=Title.mp3
//	Title1=Title
//	Length1=-1
//	NumberOfEntries=1
//	Version=2
func (p *PlaylistCreator) createPLS(artifacts []*model.Artifact) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")

	for i, a := range artifacts {
		idx := i + 1
		sb.WriteString(fmt.Sprintf("File%d=%s\n", idx, p.entry(a)))
		sb.WriteString(fmt.Sprintf("Title%d=%s\n", idx, a.Name))
		sb.WriteString(fmt.Sprintf("Length%d=-1\n", idx))
	}

	sb.WriteString(fmt.Sprintf("NumberOfEntries=%d\n", len(artifacts)))
	sb.WriteString("Version=2\n")

	return sb.String()
}
