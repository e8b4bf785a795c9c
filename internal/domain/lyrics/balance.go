package lyrics

import (
	"math"
	"unicode/utf8"

	"github.com/forPelevin/lyricvid/internal/types"
)

const DefaultMaxLineLength = 25

// Balance breaks a long line into sub-lines of roughly equal length.
//
//	"This is a very long line that should be broken into multiple lines"
//	-> "This is a very long" / "line that should be" / "broken into multiple" / "lines"
//
// Lines that already fit in maxLength come back unchanged. Words are never
// split, so a single word longer than maxLength yields an oversized sub-line.
func Balance(line types.Line, maxLength int) []types.Line {
	if maxLength <= 0 {
		maxLength = DefaultMaxLineLength
	}
	n := utf8.RuneCountInString(line.Text())
	if n <= maxLength || len(line.Words) < 2 {
		return []types.Line{line}
	}

	target := float64(n) / math.Ceil(float64(n)/float64(maxLength))

	var out []types.Line
	var cur []types.Word
	chars := 0
	for _, w := range line.Words {
		next := chars + utf8.RuneCountInString(w.Text) + 1
		breakCost := math.Abs(target - float64(chars))
		keepCost := math.Abs(target - float64(next))
		if len(cur) > 0 && (keepCost > breakCost || next > maxLength) {
			out = append(out, types.NewLine(cur))
			cur = cur[:0]
			chars = 0
			next = utf8.RuneCountInString(w.Text) + 1
		}
		cur = append(cur, w)
		chars = next
	}
	if len(cur) > 0 {
		out = append(out, types.NewLine(cur))
	}
	return out
}
