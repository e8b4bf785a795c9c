package ports

import (
	"context"
	"time"

	"github.com/forPelevin/lyricvid/internal/types"
)

// RenderJob is one lyric video render. Duration caps the output; zero keeps
// the full song.
type RenderJob struct {
	Audio        string
	Instrumental string
	Subtitles    string
	Background   string // image path, blurred; empty uses BgColor
	BgColor      string
	Width        int
	Height       int
	FPS          int
	AudioVolume  float64 // level of the original mix under the instrumental
	Duration     time.Duration
	Out          string
}

type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	RenderLyricVideo(ctx context.Context, job RenderJob) error
	ProbeDuration(ctx context.Context, in string) (time.Duration, error)
}

// Separator splits a song into its vocal and instrumental stems.
type Separator interface {
	Separate(ctx context.Context, audio, outDir string) (vocals, instrumental string, err error)
}

type LyricsSource interface {
	Lyrics(ctx context.Context, vocalsWav, cacheDir string) (types.Lyrics, error)
}

type Previewer interface {
	Play(ctx context.Context, path string) error
}
