package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

func writeFakeMP3(t *testing.T) (string, []byte) {
	t.Helper()
	audio := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 256)
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, audio, 0644); err != nil {
		t.Fatal(err)
	}
	return path, audio
}

func TestTagger_SaveTags(t *testing.T) {
	path, audio := writeFakeMP3(t)
	cover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 'J', 'F', 'I', 'F'}

	tagger := NewTagger(nil)
	err := tagger.SaveTags(path, Metadata{
		Title:     "My:Song/Test",
		SourceURL: "https://www.youtube.com/watch?v=abc123",
		Duration:  212.4,
	}, cover)
	if err != nil {
		t.Fatalf("SaveTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "My:Song/Test" {
		t.Errorf("Title = %q, want %q", tag.Title(), "My:Song/Test")
	}

	comments := tag.GetFrames(tag.CommonID("Comments"))
	if len(comments) != 1 {
		t.Fatalf("got %d comment frames, want 1", len(comments))
	}
	if cf, ok := comments[0].(id3v2.CommentFrame); !ok || cf.Text != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("comment = %+v", comments[0])
	}

	if got := tag.GetTextFrame("TLEN").Text; got != "212400" {
		t.Errorf("TLEN = %q, want %q", got, "212400")
	}

	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pictures) != 1 {
		t.Errorf("got %d pictures, want 1", len(pictures))
	}

	data, _ := os.ReadFile(path)
	if !bytes.HasSuffix(data, audio) {
		t.Error("audio data should be preserved after the tag")
	}
}

func TestTagger_ModifyTagsDisabled(t *testing.T) {
	path, _ := writeFakeMP3(t)

	tagger := NewTagger(&TagConfig{ModifyTags: false, Title: true})
	if err := tagger.SaveTags(path, Metadata{Title: "Ignored"}, nil); err != nil {
		t.Fatalf("SaveTags failed: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "" {
		t.Errorf("Title = %q, want empty", tag.Title())
	}
}

func TestTagger_MissingFile(t *testing.T) {
	tagger := NewTagger(nil)
	err := tagger.SaveTags(filepath.Join(t.TempDir(), "missing.mp3"), Metadata{Title: "x"}, nil)
	if err == nil {
		t.Error("expected error but got none")
	}
}
