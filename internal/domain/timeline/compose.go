package timeline

import (
	"math"
	"strings"

	"github.com/forPelevin/lyricvid/internal/types"
)

// Title names the song shown before the first lyric line.
type Title struct {
	Song   string
	Artist string
}

func (t Title) empty() bool {
	return strings.TrimSpace(t.Song) == "" || strings.TrimSpace(t.Artist) == ""
}

// NewTitleBlock sizes the title card for a song whose first line starts at
// firstStart. It reports false when the lead-in is too short for one.
func NewTitleBlock(t Title, firstStart float64, opts Options) (TitleBlock, bool) {
	if t.empty() {
		return TitleBlock{}, false
	}
	room := firstStart - opts.TitleLead
	if room < opts.TitleMin {
		return TitleBlock{}, false
	}
	return TitleBlock{Song: t.Song, Artist: t.Artist, Duration: math.Min(room, opts.TitleMax)}, true
}

// Compose flattens the pair blocks of all segments, in order, into clip
// descriptors, optionally led by a title card. Blocks are trimmed by
// TrimEnd but never shifted, so closely spaced blocks may overlap.
func Compose(segments [][]PairBlock, title Title, opts Options) []ClipDescriptor {
	var out []ClipDescriptor

	if first, ok := firstLine(segments); ok {
		if tb, ok := NewTitleBlock(title, first.Start(), opts); ok {
			out = append(out, titleDescriptor(tb))
		}
	}

	for _, blocks := range segments {
		for _, blk := range blocks {
			out = append(out, ClipDescriptor{
				Kind:         KindLyrics,
				Start:        blk.VisibleAt,
				End:          blk.VisibleUntil - opts.TrimEnd,
				Position:     blk.Position,
				CrossfadeIn:  opts.FadeIn,
				CrossfadeOut: opts.FadeOut,
				Lines:        blk.Clips,
			})
		}
	}
	return out
}

func titleDescriptor(tb TitleBlock) ClipDescriptor {
	return ClipDescriptor{
		Kind:     KindTitle,
		Start:    0,
		End:      tb.Duration,
		Position: Center,
		Lines: []LineClip{
			{Text: tb.Song, Placement: Top},
			{Text: tb.Artist, Placement: Bottom},
		},
	}
}

func firstLine(segments [][]PairBlock) (types.Line, bool) {
	for _, blocks := range segments {
		if len(blocks) > 0 && len(blocks[0].Clips) > 0 {
			return blocks[0].Clips[0].Line, true
		}
	}
	return types.Line{}, false
}
