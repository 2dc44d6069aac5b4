package model

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS
)

// ParsePlaylistFormat maps a settings value such as "pls" to a format.
// Unknown values fall back to M3U.
func ParsePlaylistFormat(s string) PlaylistFormat {
	switch s {
	case "pls":
		return PlaylistFormatPLS
	default:
		return PlaylistFormatM3U
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatPLS:
		return ".pls"
	default:
		return ".m3u"
	}
}

// ContentType returns the MIME type used when serving the playlist.
func (pf PlaylistFormat) ContentType() string {
	switch pf {
	case PlaylistFormatPLS:
		return "audio/x-scpls"
	default:
		return "audio/x-mpegurl"
	}
}
