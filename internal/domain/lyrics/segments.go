package lyrics

import "github.com/forPelevin/lyricvid/internal/types"

const DefaultSegmentGap = 2.0

// Segment is a run of lines with no silence longer than the segment gap between them.
type Segment []types.Line

func (s Segment) Start() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[0].Start()
}

func (s Segment) End() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].End()
}

// Group partitions lines into segments in a single pass. A zero start or end
// is treated as unknown timing and never opens a new segment.
func Group(lines []types.Line, gap float64) []Segment {
	if gap <= 0 {
		gap = DefaultSegmentGap
	}
	var out []Segment
	var cur Segment
	for i, ln := range lines {
		if i > 0 {
			prev := lines[i-1]
			if ln.Start() != 0 && prev.End() != 0 && ln.Start()-prev.End() > gap {
				out = append(out, cur)
				cur = nil
			}
		}
		cur = append(cur, ln)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
