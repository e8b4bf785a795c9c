package lyricsfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/forPelevin/lyricvid/internal/types"
)

func TestRead_YAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "lyrics.yaml")
	doc := `lines:
  - words:
      - {text: hello, start: 1.0, end: 1.4}
      - {text: world, start: 1.5, end: 2.0}
`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	ly, err := New(p).Lyrics(context.Background(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(ly.Lines) != 1 || ly.Lines[0].Text() != "hello world" || ly.Lines[0].End() != 2.0 {
		t.Fatalf("unexpected lyrics: %+v", ly)
	}
}

func TestRead_JSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "lyrics.json")
	doc := `{"lines": [{"words": [{"text": "la", "start": 3, "end": 3.5}]}]}`
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := Read(p)
	if err != nil {
		t.Fatal(err)
	}
	want := types.Word{Text: "la", Start: 3, End: 3.5}
	if len(out.Lines) != 1 || out.Lines[0].Words[0] != want {
		t.Fatalf("unexpected lyrics: %+v", out)
	}
}

func TestLyrics_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New("unused.json").Lyrics(ctx, "", ""); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRead_UnsupportedExtension(t *testing.T) {
	p := filepath.Join(t.TempDir(), "lyrics.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(p); err == nil {
		t.Fatalf("expected error")
	}
}
