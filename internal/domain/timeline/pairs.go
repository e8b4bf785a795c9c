package timeline

import (
	"math"

	"github.com/forPelevin/lyricvid/internal/domain/lyrics"
	"github.com/forPelevin/lyricvid/internal/domain/reveal"
	"github.com/forPelevin/lyricvid/internal/types"
)

// Builder lays out the lines of one segment as pair blocks.
type Builder struct {
	Measurer reveal.Measurer
	Options  Options
	// Warnf receives per-line measurement failures. Those lines are shown
	// without a reveal animation instead of failing the whole timeline.
	Warnf func(format string, args ...any)
}

func NewBuilder(m reveal.Measurer, opts Options) Builder {
	return Builder{Measurer: m, Options: opts}
}

// Build pairs lines {0,1}, {2,3}, ... A trailing odd line gets a block of its
// own. Blocks alternate between the top and bottom of the lyric area.
func (b Builder) Build(seg lyrics.Segment) []PairBlock {
	out := make([]PairBlock, 0, (len(seg)+1)/2)
	for i := 0; i < len(seg); i += 2 {
		var second *types.Line
		if i+1 < len(seg) {
			second = &seg[i+1]
		}
		blk := b.pair(seg[i], second)
		if len(out)%2 == 0 {
			blk.Position = Top
		} else {
			blk.Position = Bottom
		}
		out = append(out, blk)
	}
	return out
}

func (b Builder) pair(first types.Line, second *types.Line) PairBlock {
	visibleAt := first.Start() - b.Options.OffsetStart
	visibleUntil := first.End() + b.Options.OffsetEnd
	if second != nil {
		visibleUntil = math.Max(visibleUntil, second.End()+b.Options.OffsetEnd)
	}

	blk := PairBlock{VisibleAt: visibleAt, VisibleUntil: visibleUntil}
	if second == nil {
		blk.Clips = []LineClip{b.clip(first, visibleAt, Center)}
		return blk
	}
	blk.Clips = []LineClip{
		b.clip(first, visibleAt, Top),
		b.clip(*second, visibleAt, Bottom),
	}
	return blk
}

func (b Builder) clip(ln types.Line, visibleAt float64, placement Position) LineClip {
	c := LineClip{
		Line:         ln,
		Text:         ln.Text(),
		Placement:    placement,
		AnimOffset:   ln.Start() - visibleAt,
		AnimDuration: ln.Duration(),
	}
	if b.Measurer == nil {
		return c
	}
	bps, err := reveal.Breakpoints(ln, b.Measurer)
	if err != nil {
		if b.Warnf != nil {
			b.Warnf("static reveal for line at %.2fs: %v", ln.Start(), err)
		}
		return c
	}
	c.Animated = true
	c.Breakpoints = bps
	return c
}
