package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/forPelevin/lyricvid/internal/config"
	"github.com/forPelevin/lyricvid/internal/logging"
	"github.com/forPelevin/lyricvid/internal/pipeline"
)

func render(cmd *cobra.Command, input string) error {
	cfg, log, err := pipelineConfig(cmd, input)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	cfg.OutDir, _ = f.GetString("out")
	if bg, _ := f.GetString("background"); bg != "" {
		if cfg.Background, err = filepath.Abs(bg); err != nil {
			return err
		}
	}
	if sec, _ := f.GetFloat64("max-duration"); sec >= 0 {
		cfg.Settings.Video.MaxDuration = sec
	}
	preview, _ := f.GetBool("preview")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := runContext(3 * time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Video)

	if preview {
		log.Info().Str("video", res.Video).Msg("starting preview")
		return pipeline.Preview(ctx, cfg.Settings, res.Video)
	}
	return nil
}

// pipelineConfig resolves settings, logging and the source flags shared by
// render and layout.
func pipelineConfig(cmd *cobra.Command, input string) (pipeline.Config, zerolog.Logger, error) {
	settings, log, err := loadSettings(cmd)
	if err != nil {
		return pipeline.Config{}, log, err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return pipeline.Config{}, log, err
	}
	f := cmd.Flags()
	cfg := pipeline.Config{
		Audio:    absIn,
		Settings: *settings,
		Log:      log,
	}
	cfg.Song, _ = f.GetString("song")
	cfg.Artist, _ = f.GetString("artist")
	cfg.NoSeparation, _ = f.GetBool("no-separation")
	cfg.CacheDir, _ = f.GetString("cache")
	if lf, _ := f.GetString("lyrics"); lf != "" {
		if cfg.LyricsFile, err = filepath.Abs(lf); err != nil {
			return pipeline.Config{}, log, err
		}
	}
	return cfg, log, nil
}

func loadSettings(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	format, _ := cmd.Flags().GetString("log-format")
	log, err := logging.New(logging.Options{Verbose: verbose, Format: format, Out: cmd.ErrOrStderr()})
	if err != nil {
		return nil, log, err
	}

	path, _ := cmd.Flags().GetString("config")
	settings, resolved, exists, err := config.Load(path)
	if err != nil {
		return nil, log, fmt.Errorf("config: %w", err)
	}
	if exists {
		log.Debug().Str("path", resolved).Msg("config loaded")
	} else {
		log.Debug().Msg("no config file, using defaults")
	}
	return settings, log, nil
}

func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
