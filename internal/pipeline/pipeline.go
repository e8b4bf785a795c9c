package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/forPelevin/lyricvid/internal/config"
	"github.com/forPelevin/lyricvid/internal/domain/reveal"
	"github.com/forPelevin/lyricvid/internal/domain/timeline"
	"github.com/forPelevin/lyricvid/internal/logging"
	"github.com/forPelevin/lyricvid/internal/ports"
	"github.com/forPelevin/lyricvid/internal/ports/adapters/demucs"
	"github.com/forPelevin/lyricvid/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/lyricvid/internal/ports/adapters/ffplay"
	"github.com/forPelevin/lyricvid/internal/ports/adapters/fontmetrics"
	"github.com/forPelevin/lyricvid/internal/ports/adapters/lyricsfile"
	"github.com/forPelevin/lyricvid/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/lyricvid/internal/types"
	"github.com/forPelevin/lyricvid/internal/usecase"
)

type Config struct {
	Audio string
	// LyricsFile skips transcription and reads word timings from a JSON or
	// YAML file.
	LyricsFile string
	Song       string
	Artist     string
	Background string

	// NoSeparation keeps the original mix: no instrumental bed, and
	// transcription runs on the full song.
	NoSeparation bool

	OutDir   string
	CacheDir string

	Settings config.Config
	Log      zerolog.Logger
}

func (c Config) Validate() error {
	if c.Audio == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Audio); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.LyricsFile != "" {
		if _, err := os.Stat(c.LyricsFile); err != nil {
			return fmt.Errorf("stat lyrics: %w", err)
		}
	} else if c.Settings.Tools.WhisperModel == "" {
		return fmt.Errorf("whisper model path is required without --lyrics")
	}
	if bg := c.background(); bg != "" {
		if _, err := os.Stat(bg); err != nil {
			return fmt.Errorf("stat background: %w", err)
		}
	}
	return c.Settings.Validate()
}

func (c Config) background() string {
	if c.Background != "" {
		return c.Background
	}
	return c.Settings.Video.Background
}

type Result struct {
	RunDir   string
	Video    string
	Manifest types.Manifest
}

// Run renders the lyric video into a fresh run directory under OutDir and
// writes manifest.json next to it.
func Run(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Log
	w, err := prepare(cfg)
	if err != nil {
		return Result{}, err
	}
	defer w.close()

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = cfg.Settings.Paths.OutDir
	}
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.Audio, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Info().Str("dir", runOutDir).Msg("output run dir")

	res, err := w.uc.Run(ctx, w.input(runOutDir))
	if err != nil {
		return Result{}, err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return Result{}, err
	}
	log.Info().Int("clips", len(res.Manifest.Clips)).Str("path", manifestPath).Msg("manifest written")
	return Result{
		RunDir:   runOutDir,
		Video:    filepath.Join(runOutDir, usecase.VideoFile),
		Manifest: res.Manifest,
	}, nil
}

// Layout runs everything up to the timeline and returns it without
// rendering.
func Layout(ctx context.Context, cfg Config) (timeline.Plan, error) {
	w, err := prepare(cfg)
	if err != nil {
		return timeline.Plan{}, err
	}
	defer w.close()
	plan, _, err := w.uc.Plan(ctx, w.input(""))
	return plan, err
}

// Preview plays a rendered video until it ends or ctx is cancelled.
func Preview(ctx context.Context, settings config.Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("stat video: %w", err)
	}
	var p ports.Previewer = ffplay.New(settings.Tools.FFplay)
	return p.Play(ctx, path)
}

type workspace struct {
	cfg      Config
	uc       usecase.Usecase
	cacheDir string
	song     string
	artist   string
	measurer *fontmetrics.Measurer
}

func prepare(cfg Config) (*workspace, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Log
	s := cfg.Settings

	artist, song := titleNames(cfg.Audio, cfg.Artist, cfg.Song)

	m, err := fontmetrics.New(s.Text.Font, float64(s.Text.FontSize))
	if err != nil {
		return nil, err
	}

	// adapters
	v := ffmpeg.New(s.Tools.FFmpeg, s.Tools.FFprobe)
	deps := usecase.Deps{
		Video:    v,
		Measurer: m,
		Log:      logging.WithComponent(log, "usecase"),
	}
	if !cfg.NoSeparation {
		deps.Separator = demucs.New(s.Tools.DemucsBin, s.Tools.DemucsModel)
	}
	if cfg.LyricsFile != "" {
		deps.Lyrics = lyricsfile.New(cfg.LyricsFile)
	} else {
		deps.Lyrics = whispercpp.New(s.Tools.WhisperBin, s.Tools.WhisperModel, s.Tools.WhisperLanguage)
	}

	jobID := hash(cfg.Audio)
	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = s.Paths.CacheDir
	}
	if baseCache == "" {
		baseCache = ".cache"
	}
	cacheDir := filepath.Join(baseCache, "runs", jobID)
	log.Debug().Msg("preparing workspace")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		m.Close()
		return nil, err
	}
	log.Info().Str("cache", cacheDir).Str("song", song).Str("artist", artist).Msg("workspace ready")

	return &workspace{
		cfg:      cfg,
		uc:       usecase.New(deps),
		cacheDir: cacheDir,
		song:     song,
		artist:   artist,
		measurer: m,
	}, nil
}

func (w *workspace) input(outDir string) usecase.Input {
	s := w.cfg.Settings
	return usecase.Input{
		Audio:       w.cfg.Audio,
		Song:        w.song,
		Artist:      w.artist,
		Background:  w.cfg.background(),
		BgColor:     s.Video.BgColor,
		Transcribe:  w.cfg.LyricsFile == "",
		Lyric:       s.LyricOptions(),
		Timeline:    s.TimelineOptions(),
		Style:       s.Style(),
		Workers:     s.Layout.Workers,
		FPS:         s.Video.FPS,
		AudioVolume: s.Video.AudioVolume,
		MaxDuration: s.MaxDuration(),
		CacheDir:    w.cacheDir,
		OutDir:      outDir,
	}
}

func (w *workspace) close() {
	_ = w.measurer.Close()
}

// titleNames fills whichever of artist and song is empty from the audio
// file name.
func titleNames(audio, artist, song string) (string, string) {
	if artist != "" && song != "" {
		return artist, song
	}
	a, s := parseArtistSong(audio)
	if artist == "" {
		artist = a
	}
	if song == "" {
		song = s
	}
	return artist, song
}

// parseArtistSong reads "Artist - Song.ext". Names without the separator
// give no title.
func parseArtistSong(path string) (artist, song string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	a, s, ok := strings.Cut(name, " - ")
	if !ok {
		return "", ""
	}
	return strings.TrimSpace(a), strings.TrimSpace(s)
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.Separator = (*demucs.Adapter)(nil)
var _ ports.LyricsSource = (*whispercpp.Adapter)(nil)
var _ ports.LyricsSource = (*lyricsfile.Adapter)(nil)
var _ ports.Previewer = (*ffplay.Player)(nil)
var _ reveal.Measurer = (*fontmetrics.Measurer)(nil)
