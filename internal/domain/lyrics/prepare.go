package lyrics

import (
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/lyricvid/internal/types"
)

type Options struct {
	// MaxLineLength is the rune budget handed to Balance.
	MaxLineLength int
	// BalanceThreshold gates balancing: only lines at least this long are split.
	BalanceThreshold int
	// SegmentGap is the silence (seconds) that starts a new segment.
	SegmentGap float64
}

func DefaultOptions() Options {
	return Options{
		MaxLineLength:    DefaultMaxLineLength,
		BalanceThreshold: 30,
		SegmentGap:       DefaultSegmentGap,
	}
}

// Clean drops lines without words or with blank text. The input is not modified.
func Clean(lines []types.Line) []types.Line {
	out := make([]types.Line, 0, len(lines))
	for _, ln := range lines {
		if len(ln.Words) == 0 || strings.TrimSpace(ln.Text()) == "" {
			continue
		}
		out = append(out, ln)
	}
	return out
}

// Prepare runs Clean and then balances every line that reaches the threshold.
func Prepare(ly types.Lyrics, opts Options) []types.Line {
	if opts.BalanceThreshold <= 0 {
		opts.BalanceThreshold = DefaultOptions().BalanceThreshold
	}
	var out []types.Line
	for _, ln := range Clean(ly.Lines) {
		if utf8.RuneCountInString(ln.Text()) < opts.BalanceThreshold {
			out = append(out, ln)
			continue
		}
		out = append(out, Balance(ln, opts.MaxLineLength)...)
	}
	return out
}
