package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
)

// TagConfig holds tagging configuration.
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are written.
	ModifyTags bool

	// Title writes the TIT2 (Title) frame.
	Title bool

	// Source writes a COMM (Comments) frame holding the video's watch URL.
	Source bool

	// Length writes the TLEN (Length) frame when the duration is known.
	Length bool
}

// DefaultTagConfig returns a configuration that writes every supported frame.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Title:      true,
		Source:     true,
		Length:     true,
	}
}

// Metadata is the information written into the tags of a saved MP3.
type Metadata struct {
	Title     string
	SourceURL string

	// Duration is the track length in seconds, 0 if unknown.
	Duration float64
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags(path, meta, cover); err != nil {
//	    log.Printf("Failed to tag %s: %v", path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the MP3 file at path.
//
// Existing tags are parsed and kept unless overwritten here. When cover is
// non-nil it replaces any attached picture as the front cover; it must be
// JPEG data.
func (t *Tagger) SaveTags(path string, meta Metadata, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags: %w", err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateTextFrames(tag, meta)
	}

	if cover != nil {
		t.updateArtwork(tag, cover)
	}

	return tag.Save()
}

func (t *Tagger) updateTextFrames(tag *id3v2.Tag, meta Metadata) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.Title && meta.Title != "" {
		tag.SetTitle(meta.Title)
	}

	if t.config.Source && meta.SourceURL != "" {
		tag.DeleteFrames(tag.CommonID("Comments"))
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "Source",
			Text:        meta.SourceURL,
		})
	}

	// TLEN is in milliseconds
	if t.config.Length && meta.Duration > 0 {
		tag.AddTextFrame("TLEN", id3v2.EncodingUTF8, fmt.Sprintf("%d", int64(meta.Duration*1000)))
	}
}

func (t *Tagger) updateArtwork(tag *id3v2.Tag, cover []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     cover,
	})
}
