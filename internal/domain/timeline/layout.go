package timeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/lyricvid/internal/domain/lyrics"
	"github.com/forPelevin/lyricvid/internal/types"
)

// Layout builds every segment's pair blocks. Segments are independent, so
// they are laid out concurrently; the result keeps segment order.
func Layout(ctx context.Context, segments []lyrics.Segment, b Builder, workers int) ([][]PairBlock, error) {
	out := make([][]PairBlock, len(segments))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = b.Build(seg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Plan is the whole engine: clean and balance lines, group them into
// segments, lay out pair blocks and compose the descriptors.
type Plan struct {
	Lines    []types.Line
	Segments []lyrics.Segment
	Blocks   [][]PairBlock
	Clips    []ClipDescriptor
}

type PlanInput struct {
	Lyrics  types.Lyrics
	Title   Title
	Lyric   lyrics.Options
	Builder Builder
	Workers int
}

func BuildPlan(ctx context.Context, in PlanInput) (Plan, error) {
	lines := lyrics.Prepare(in.Lyrics, in.Lyric)
	segs := lyrics.Group(lines, in.Lyric.SegmentGap)
	blocks, err := Layout(ctx, segs, in.Builder, in.Workers)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Lines:    lines,
		Segments: segs,
		Blocks:   blocks,
		Clips:    Compose(blocks, in.Title, in.Builder.Options),
	}, nil
}
