package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/forPelevin/lyricvid/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(config.EnvWhisperModel, "")
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("expected missing config to be reported")
	}
	if resolved != path {
		t.Fatalf("resolved %q, want %q", resolved, path)
	}
	if cfg.Layout.MaxLineLength != 25 || cfg.Layout.SegmentGap != 2.0 {
		t.Fatalf("unexpected layout defaults: %+v", cfg.Layout)
	}
	if cfg.MaxDuration() != 90*time.Second {
		t.Fatalf("unexpected max duration: %v", cfg.MaxDuration())
	}
	if got := cfg.TimelineOptions(); got.OffsetEnd != 4 || got.TrimEnd != 3 || got.TitleLead != 3 {
		t.Fatalf("unexpected timeline options: %+v", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyricvid.toml")
	doc := `
[layout]
max_line_length = 20
balance_threshold = 24

[text]
active_color = "#00ff00"

[video]
max_duration = 0
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatalf("expected config file to be read")
	}
	if lo := cfg.LyricOptions(); lo.MaxLineLength != 20 || lo.BalanceThreshold != 24 {
		t.Fatalf("unexpected lyric options: %+v", lo)
	}
	if st := cfg.Style(); st.Active != "#00FF00" || st.Width != 720 {
		t.Fatalf("unexpected style: %+v", st)
	}
	if cfg.MaxDuration() != 0 {
		t.Fatalf("expected full-length render")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyricvid.toml")
	if err := os.WriteFile(path, []byte("[layout]\nmax_len = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvOverridesTools(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyricvid.toml")
	if err := os.WriteFile(path, []byte("[tools]\nwhisper_bin = \"from-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvWhisperBin, "/opt/whisper/bin/whisper-cli")
	t.Setenv(config.EnvFFmpeg, "/usr/local/bin/ffmpeg")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tools.WhisperBin != "/opt/whisper/bin/whisper-cli" {
		t.Fatalf("env did not override whisper bin: %q", cfg.Tools.WhisperBin)
	}
	if cfg.Tools.FFmpeg != "/usr/local/bin/ffmpeg" {
		t.Fatalf("env did not override ffmpeg: %q", cfg.Tools.FFmpeg)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[layout]") {
		t.Fatalf("sample config missing layout section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	def := config.Default()
	if cfg.Layout != def.Layout || cfg.Text != def.Text || cfg.Video != def.Video {
		t.Fatalf("sample drifted from defaults:\n%+v\n%+v", cfg, def)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"max line length":   func(c *config.Config) { c.Layout.MaxLineLength = 0 },
		"threshold < max":   func(c *config.Config) { c.Layout.BalanceThreshold = 10 },
		"segment gap":       func(c *config.Config) { c.Layout.SegmentGap = 0 },
		"negative fade":     func(c *config.Config) { c.Layout.FadeOut = -1 },
		"trim beyond hold":  func(c *config.Config) { c.Layout.TrimEnd = 5 },
		"font size":         func(c *config.Config) { c.Text.FontSize = 0 },
		"colour":            func(c *config.Config) { c.Text.ActiveColor = "orange" },
		"canvas":            func(c *config.Config) { c.Video.Width = 0 },
		"lyric area":        func(c *config.Config) { c.Video.LyricArea = 1000 },
		"audio volume":      func(c *config.Config) { c.Video.AudioVolume = 2 },
		"background colour": func(c *config.Config) { c.Video.BgColor = "black" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
