package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/lyricvid/internal/domain/timeline"
	"github.com/forPelevin/lyricvid/internal/pipeline"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout <audio>",
		Short: "Print the lyric timeline without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := pipelineConfig(cmd, args[0])
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, cancel := runContext(time.Hour)
			defer cancel()

			plan, err := pipeline.Layout(ctx, cfg)
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("timeline"); path != "" {
				doc := timeline.NewDocument(plan, cfg.Settings.TimelineOptions())
				if err := timeline.WriteDocument(doc, path); err != nil {
					return fmt.Errorf("write timeline: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPlan(plan))
			return nil
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().String("timeline", "", "Also write the timeline as YAML to this path")
	return cmd
}

func renderPlan(plan timeline.Plan) string {
	headers := []string{"#", "Kind", "Start", "End", "Position", "Text"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft}
	rows := make([][]string, 0, len(plan.Clips))
	for i, c := range plan.Clips {
		text := make([]string, 0, len(c.Lines))
		for _, ln := range c.Lines {
			text = append(text, ln.Text)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(c.Kind),
			formatSeconds(c.Start),
			formatSeconds(c.End),
			string(c.Position),
			strings.Join(text, " / "),
		})
	}
	summary := fmt.Sprintf("%d lines, %d segments, %d clips", len(plan.Lines), len(plan.Segments), len(plan.Clips))
	if len(rows) == 0 {
		return summary
	}
	return renderTable(headers, rows, aligns) + "\n" + summary
}

func formatSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 2, 64)
}
