package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/forPelevin/lyricvid/internal/domain/lyrics"
	"github.com/forPelevin/lyricvid/internal/domain/subtitles"
	"github.com/forPelevin/lyricvid/internal/domain/timeline"
)

//go:embed sample_config.toml
var sampleConfig string

// Layout holds line balancing, segmentation and pair timing.
type Layout struct {
	MaxLineLength    int     `toml:"max_line_length"`
	BalanceThreshold int     `toml:"balance_threshold"`
	SegmentGap       float64 `toml:"segment_gap"`
	OffsetStart      float64 `toml:"offset_start"`
	OffsetEnd        float64 `toml:"offset_end"`
	TrimEnd          float64 `toml:"trim_end"`
	FadeIn           float64 `toml:"fade_in"`
	FadeOut          float64 `toml:"fade_out"`
	Workers          int     `toml:"workers"`
}

// Text describes how lyrics are drawn. Font is a TTF/OTF path used for
// measuring; empty uses the built-in Go font. FontName is what the
// subtitle renderer asks the system for.
type Text struct {
	Font        string `toml:"font"`
	FontName    string `toml:"font_name"`
	FontSize    int    `toml:"font_size"`
	Color       string `toml:"color"`
	ActiveColor string `toml:"active_color"`
	BorderColor string `toml:"border_color"`
	BorderSize  int    `toml:"border_size"`
	LineGap     int    `toml:"line_gap"`
	Uppercase   bool   `toml:"uppercase"`
}

type Video struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	LyricArea   int     `toml:"lyric_area_height"`
	FPS         int     `toml:"fps"`
	MaxDuration float64 `toml:"max_duration"` // seconds, 0 renders the whole song
	AudioVolume float64 `toml:"audio_volume"`
	BgColor     string  `toml:"bg_color"`
	Background  string  `toml:"background"`
}

// Tools locates the external programs.
type Tools struct {
	FFmpeg          string `toml:"ffmpeg"`
	FFprobe         string `toml:"ffprobe"`
	FFplay          string `toml:"ffplay"`
	WhisperBin      string `toml:"whisper_bin"`
	WhisperModel    string `toml:"whisper_model"`
	WhisperLanguage string `toml:"whisper_language"`
	DemucsBin       string `toml:"demucs_bin"`
	DemucsModel     string `toml:"demucs_model"`
}

type Paths struct {
	CacheDir string `toml:"cache_dir"`
	OutDir   string `toml:"out_dir"`
}

type Config struct {
	Layout Layout `toml:"layout"`
	Text   Text   `toml:"text"`
	Video  Video  `toml:"video"`
	Tools  Tools  `toml:"tools"`
	Paths  Paths  `toml:"paths"`
}

// Environment overrides, applied after the file is read.
const (
	EnvWhisperModel = "LYRICVID_WHISPER_MODEL"
	EnvWhisperBin   = "LYRICVID_WHISPER_BIN"
	EnvDemucsBin    = "LYRICVID_DEMUCS_BIN"
	EnvFFmpeg       = "LYRICVID_FFMPEG"
)

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lyricvid/config.toml")
}

// Load reads the config at path, or the first of the default locations
// that exists. A missing file yields the defaults. The bool reports whether
// a file was read.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("lyricvid.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Tools.WhisperModel, EnvWhisperModel)
	set(&c.Tools.WhisperBin, EnvWhisperBin)
	set(&c.Tools.DemucsBin, EnvDemucsBin)
	set(&c.Tools.FFmpeg, EnvFFmpeg)
}

func (c *Config) normalize() error {
	var err error
	if c.Text.Font, err = expandPath(c.Text.Font); err != nil {
		return fmt.Errorf("text.font: %w", err)
	}
	if c.Video.Background, err = expandPath(c.Video.Background); err != nil {
		return fmt.Errorf("video.background: %w", err)
	}
	if c.Tools.WhisperModel, err = expandPath(c.Tools.WhisperModel); err != nil {
		return fmt.Errorf("tools.whisper_model: %w", err)
	}
	c.Text.Color = strings.ToUpper(strings.TrimSpace(c.Text.Color))
	c.Text.ActiveColor = strings.ToUpper(strings.TrimSpace(c.Text.ActiveColor))
	c.Text.BorderColor = strings.ToUpper(strings.TrimSpace(c.Text.BorderColor))
	return nil
}

// LyricOptions returns the balancing and segmentation settings.
func (c *Config) LyricOptions() lyrics.Options {
	return lyrics.Options{
		MaxLineLength:    c.Layout.MaxLineLength,
		BalanceThreshold: c.Layout.BalanceThreshold,
		SegmentGap:       c.Layout.SegmentGap,
	}
}

func (c *Config) TimelineOptions() timeline.Options {
	opts := timeline.DefaultOptions()
	opts.OffsetStart = c.Layout.OffsetStart
	opts.OffsetEnd = c.Layout.OffsetEnd
	opts.TrimEnd = c.Layout.TrimEnd
	opts.FadeIn = c.Layout.FadeIn
	opts.FadeOut = c.Layout.FadeOut
	return opts
}

func (c *Config) Style() subtitles.Style {
	return subtitles.Style{
		Width:      c.Video.Width,
		Height:     c.Video.Height,
		AreaHeight: c.Video.LyricArea,
		Font:       c.Text.FontName,
		FontSize:   c.Text.FontSize,
		LineGap:    c.Text.LineGap,
		Color:      c.Text.Color,
		Active:     c.Text.ActiveColor,
		Border:     c.Text.BorderColor,
		BorderSize: c.Text.BorderSize,
		Uppercase:  c.Text.Uppercase,
	}
}

func (c *Config) MaxDuration() time.Duration {
	return time.Duration(c.Video.MaxDuration * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
