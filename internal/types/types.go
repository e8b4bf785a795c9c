package types

import "strings"

// Lyrics is the word-timed lyric tree produced by a transcription or lyrics
// provider. Times are seconds from the start of the song.
type Lyrics struct {
	Lines []Line `json:"lines" yaml:"lines"`
}

type Line struct {
	Words []Word `json:"words" yaml:"words"`
}

type Word struct {
	Text  string  `json:"text" yaml:"text"`
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// NewLine copies words so the returned line never aliases the caller's slice.
func NewLine(words []Word) Line {
	cp := make([]Word, len(words))
	copy(cp, words)
	return Line{Words: cp}
}

func (l Line) Start() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	return l.Words[0].Start
}

func (l Line) End() float64 {
	if len(l.Words) == 0 {
		return 0
	}
	return l.Words[len(l.Words)-1].End
}

func (l Line) Duration() float64 { return l.End() - l.Start() }

func (l Line) Text() string {
	parts := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

type Manifest struct {
	Audio        string        `json:"audio"`
	Song         string        `json:"song,omitempty"`
	Artist       string        `json:"artist,omitempty"`
	Video        string        `json:"video"`
	Subtitles    string        `json:"subtitles"`
	Timeline     string        `json:"timeline"`
	Vocals       string        `json:"vocals"`
	Instrumental string        `json:"instrumental"`
	Lines        int           `json:"lines"`
	Segments     int           `json:"segments"`
	SongSec      float64       `json:"song_sec,omitempty"`
	DurationSec  float64       `json:"duration_sec,omitempty"`
	Clips        []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	StartSec float64  `json:"start_sec"`
	EndSec   float64  `json:"end_sec"`
	Position string   `json:"position"`
	Text     []string `json:"text"`
}
