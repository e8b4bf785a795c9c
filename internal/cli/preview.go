package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/lyricvid/internal/pipeline"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview <video>",
		Short: "Play a rendered lyric video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := runContext(3 * time.Hour)
			defer cancel()
			return pipeline.Preview(ctx, *settings, path)
		},
	}
}
