package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/lyricvid/internal/domain/lyrics"
	"github.com/forPelevin/lyricvid/internal/domain/reveal"
	"github.com/forPelevin/lyricvid/internal/domain/subtitles"
	"github.com/forPelevin/lyricvid/internal/domain/timeline"
	"github.com/forPelevin/lyricvid/internal/ports"
	"github.com/forPelevin/lyricvid/internal/types"
)

type Deps struct {
	Video     ports.VideoTool
	Separator ports.Separator // optional; without it the mix is used as is
	Lyrics    ports.LyricsSource
	Measurer  reveal.Measurer
	Log       zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Audio      string
	Song       string
	Artist     string
	Background string
	BgColor    string

	// Transcribe extracts the vocal stem for the lyrics source and caches
	// its result as lyrics.json in CacheDir.
	Transcribe bool

	Lyric    lyrics.Options
	Timeline timeline.Options
	Style    subtitles.Style
	Workers  int

	FPS         int
	AudioVolume float64
	MaxDuration time.Duration

	CacheDir string
	OutDir   string
}

type Result struct {
	Manifest types.Manifest
	Plan     timeline.Plan
}

const (
	VideoFile     = "video.mp4"
	SubtitlesFile = "lyrics.ass"
	TimelineFile  = "timeline.yaml"
	LyricsCache   = "lyrics.json"
)

// Plan separates the song, obtains word-timed lyrics and lays out the
// timeline. Nothing is rendered.
func (u Usecase) Plan(ctx context.Context, in Input) (timeline.Plan, Stems, error) {
	stems, err := u.separate(ctx, in)
	if err != nil {
		return timeline.Plan{}, Stems{}, err
	}

	ly, err := u.lyrics(ctx, in, stems.Vocals)
	if err != nil {
		return timeline.Plan{}, Stems{}, err
	}

	b := timeline.NewBuilder(u.d.Measurer, in.Timeline)
	b.Warnf = func(format string, args ...any) {
		u.d.Log.Warn().Str("stage", "layout").Msgf(format, args...)
	}
	plan, err := timeline.BuildPlan(ctx, timeline.PlanInput{
		Lyrics:  ly,
		Title:   timeline.Title{Song: in.Song, Artist: in.Artist},
		Lyric:   in.Lyric,
		Builder: b,
		Workers: in.Workers,
	})
	if err != nil {
		return timeline.Plan{}, Stems{}, fmt.Errorf("layout: %w", err)
	}
	u.d.Log.Info().
		Int("lines", len(plan.Lines)).
		Int("segments", len(plan.Segments)).
		Int("clips", len(plan.Clips)).
		Msg("timeline planned")
	return plan, stems, nil
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	plan, stems, err := u.Plan(ctx, in)
	if err != nil {
		return Result{}, err
	}
	if len(plan.Clips) == 0 {
		u.d.Log.Warn().Msg("no lyrics to show, rendering background and audio only")
	}

	timelinePath := filepath.Join(in.OutDir, TimelineFile)
	if err := timeline.WriteDocument(timeline.NewDocument(plan, in.Timeline), timelinePath); err != nil {
		return Result{}, fmt.Errorf("write timeline: %w", err)
	}

	ass, err := subtitles.RenderLyricsASS(plan.Clips, in.Style)
	if err != nil {
		return Result{}, fmt.Errorf("render subtitles: %w", err)
	}
	assPath := filepath.Join(in.OutDir, SubtitlesFile)
	if err := writeFile(assPath, []byte(ass)); err != nil {
		return Result{}, err
	}

	songLen, length := u.renderLength(ctx, in, plan)

	videoPath := filepath.Join(in.OutDir, VideoFile)
	u.d.Log.Info().Str("out", videoPath).Dur("length", length).Msg("rendering video")
	err = u.d.Video.RenderLyricVideo(ctx, ports.RenderJob{
		Audio:        in.Audio,
		Instrumental: stems.Instrumental,
		Subtitles:    assPath,
		Background:   in.Background,
		BgColor:      in.BgColor,
		Width:        in.Style.Width,
		Height:       in.Style.Height,
		FPS:          in.FPS,
		AudioVolume:  in.AudioVolume,
		Duration:     length,
		Out:          videoPath,
	})
	if err != nil {
		return Result{}, err
	}

	m := types.Manifest{
		Audio:        in.Audio,
		Song:         in.Song,
		Artist:       in.Artist,
		Video:        VideoFile,
		Subtitles:    SubtitlesFile,
		Timeline:     TimelineFile,
		Vocals:       stems.Vocals,
		Instrumental: stems.Instrumental,
		Lines:        len(plan.Lines),
		Segments:     len(plan.Segments),
		SongSec:      songLen.Seconds(),
		DurationSec:  length.Seconds(),
	}
	for i, c := range plan.Clips {
		text := make([]string, 0, len(c.Lines))
		for _, ln := range c.Lines {
			text = append(text, ln.Text)
		}
		m.Clips = append(m.Clips, types.ManifestClip{
			ID:       fmt.Sprintf("%03d", i+1),
			Kind:     string(c.Kind),
			StartSec: c.Start,
			EndSec:   c.End,
			Position: string(c.Position),
			Text:     text,
		})
	}
	return Result{Manifest: m, Plan: plan}, nil
}

// renderLength probes the song and returns its length along with the output
// length: the shorter of the song and MaxDuration. A failed probe falls back
// to MaxDuration alone.
func (u Usecase) renderLength(ctx context.Context, in Input, plan timeline.Plan) (song, out time.Duration) {
	out = in.MaxDuration
	song, err := u.d.Video.ProbeDuration(ctx, in.Audio)
	if err != nil {
		u.d.Log.Warn().Err(err).Str("audio", in.Audio).Msg("probe failed, keeping max duration")
		song = 0
	} else {
		u.d.Log.Info().Dur("song", song).Msg("probed audio")
	}
	if song > 0 && (out <= 0 || song < out) {
		out = song
	}
	if out <= 0 {
		return song, out
	}

	cut := 0
	for _, c := range plan.Clips {
		if c.End > out.Seconds() {
			cut++
		}
	}
	if cut > 0 {
		u.d.Log.Warn().Int("clips", cut).Dur("length", out).Msg("lyric clips run past the end of the video")
	}
	return song, out
}

type Stems struct {
	Vocals       string
	Instrumental string
}

func (u Usecase) separate(ctx context.Context, in Input) (Stems, error) {
	if u.d.Separator == nil {
		return Stems{Vocals: in.Audio}, nil
	}
	u.d.Log.Info().Str("stage", "separate").Str("audio", in.Audio).Msg("separating vocals")
	vocals, inst, err := u.d.Separator.Separate(ctx, in.Audio, filepath.Join(in.CacheDir, "separated"))
	if err != nil {
		return Stems{}, fmt.Errorf("separate: %w", err)
	}
	return Stems{Vocals: vocals, Instrumental: inst}, nil
}

func (u Usecase) lyrics(ctx context.Context, in Input, vocals string) (types.Lyrics, error) {
	if !in.Transcribe {
		ly, err := u.d.Lyrics.Lyrics(ctx, vocals, in.CacheDir)
		if err != nil {
			return types.Lyrics{}, fmt.Errorf("lyrics: %w", err)
		}
		return ly, nil
	}

	cache := filepath.Join(in.CacheDir, LyricsCache)
	if ly, err := readLyrics(cache); err == nil {
		u.d.Log.Info().Str("stage", "lyrics").Str("cache", cache).Msg("reusing transcription")
		return ly, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		u.d.Log.Warn().Err(err).Str("cache", cache).Msg("ignoring unreadable lyrics cache")
	}

	wav := filepath.Join(in.CacheDir, "vocals16k.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, vocals, wav); err != nil {
		return types.Lyrics{}, err
	}
	u.d.Log.Info().Str("stage", "lyrics").Msg("transcribing vocals")
	ly, err := u.d.Lyrics.Lyrics(ctx, wav, in.CacheDir)
	if err != nil {
		return types.Lyrics{}, fmt.Errorf("transcribe: %w", err)
	}
	if err := writeLyrics(cache, ly); err != nil {
		return types.Lyrics{}, fmt.Errorf("cache lyrics: %w", err)
	}
	return ly, nil
}

func readLyrics(path string) (types.Lyrics, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Lyrics{}, err
	}
	var ly types.Lyrics
	if err := json.Unmarshal(b, &ly); err != nil {
		return types.Lyrics{}, err
	}
	return ly, nil
}

func writeLyrics(path string, ly types.Lyrics) error {
	b, err := json.MarshalIndent(ly, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, b)
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
