// Package audio provides audio file manipulation services including
// ID3 tag writing and playlist generation.
//
// # ID3 Tagging
//
// Use the Tagger to write ID3 tags to a saved MP3:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(artifact.Path, audio.Metadata{
//	    Title:     artifact.Title,
//	    SourceURL: youtube.WatchURL(artifact.VideoID),
//	}, coverJPEG)
//
// # Playlist Generation
//
// Generate a playlist for the files in the download directory:
//
//	creator := audio.NewPlaylistCreator(model.PlaylistFormatM3U, true, "http://localhost:5000/downloads/")
//	content := creator.CreatePlaylist(artifacts)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
