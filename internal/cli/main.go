package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lyricvid <audio>",
		Short:        "Render a karaoke lyric video from a song",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd, args[0])
		},
	}
	root.SilenceErrors = true

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default ./lyricvid.toml or ~/.config/lyricvid/config.toml)")
	pf.BoolP("verbose", "v", false, "Debug logging")
	pf.String("log-format", "console", "Log format: console or json")

	addSourceFlags(root)
	addRenderFlags(root)

	renderCmd := &cobra.Command{
		Use:   "render <audio>",
		Short: "Render a lyric video (same as the root command)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd, args[0])
		},
	}
	addSourceFlags(renderCmd)
	addRenderFlags(renderCmd)

	root.AddCommand(renderCmd, newLayoutCmd(), newPreviewCmd(), newConfigCmd())
	return root
}

// addSourceFlags registers the flags that decide where lyrics and titles
// come from.
func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("lyrics", "", "Word-timed lyrics (.json/.yaml); skips transcription")
	f.String("song", "", "Song title (default: parsed from \"Artist - Song\" file name)")
	f.String("artist", "", "Artist name (default: parsed from file name)")
	f.Bool("no-separation", false, "Do not split vocals; use the original mix")
	f.String("cache", "", "Cache directory (overrides paths.cache_dir)")
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("out", "", "Output directory (overrides paths.out_dir)")
	f.String("background", "", "Background image, blurred (overrides video.background)")
	f.Bool("preview", false, "Play the video when rendering finishes")

	// Hidden tuning flag (internal)
	f.Float64("max-duration", -1, "Cap the output length in seconds, 0 = whole song")
	_ = f.MarkHidden("max-duration")
}
