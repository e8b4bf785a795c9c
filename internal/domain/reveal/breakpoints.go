package reveal

import (
	"errors"
	"fmt"
	"math"

	"github.com/forPelevin/lyricvid/internal/types"
)

// ErrMeasure marks a failed or unusable width measurement.
var ErrMeasure = errors.New("text measurement failed")

// Measurer reports the rendered width of text for a fixed font and size.
// Implementations must be safe for concurrent use.
type Measurer interface {
	MeasureWidth(text string) (float64, error)
}

// Breakpoint pins the revealed fraction of a line at an offset from the line start.
type Breakpoint struct {
	Offset   float64 `json:"offset" yaml:"offset"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// Breakpoints maps each word's end time to the share of the line width covered
// once that word is fully revealed. The last breakpoint is always (duration, 1).
func Breakpoints(line types.Line, m Measurer) ([]Breakpoint, error) {
	full, err := m.MeasureWidth(line.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMeasure, line.Text(), err)
	}
	if full <= 0 || math.IsNaN(full) || math.IsInf(full, 0) {
		return nil, fmt.Errorf("%w: %q: width %v", ErrMeasure, line.Text(), full)
	}

	start := line.Start()
	out := make([]Breakpoint, 0, len(line.Words)+1)
	cur := 0.0
	for _, w := range line.Words {
		ww, err := m.MeasureWidth(w.Text + " ")
		if err != nil {
			return nil, fmt.Errorf("%w: word %q: %v", ErrMeasure, w.Text, err)
		}
		if ww < 0 {
			ww = 0
		}
		cur += ww
		out = append(out, Breakpoint{Offset: w.End - start, Fraction: math.Min(cur/full, 1)})
	}
	out = append(out, Breakpoint{Offset: line.End() - start, Fraction: 1})
	return out, nil
}
