package timeline

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/forPelevin/lyricvid/internal/domain/lyrics"
	"github.com/forPelevin/lyricvid/internal/types"
)

type monoMeasurer struct{}

func (monoMeasurer) MeasureWidth(text string) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * 20, nil
}

type brokenMeasurer struct{}

func (brokenMeasurer) MeasureWidth(string) (float64, error) {
	return 0, errors.New("font not loaded")
}

// timedLine spreads the words of text evenly over [start, end].
func timedLine(text string, start, end float64) types.Line {
	fields := strings.Fields(text)
	step := (end - start) / float64(len(fields))
	words := make([]types.Word, 0, len(fields))
	for i, f := range fields {
		words = append(words, types.Word{Text: f, Start: start + step*float64(i), End: start + step*float64(i+1)})
	}
	return types.Line{Words: words}
}

func TestBuild_SolitaryLine(t *testing.T) {
	b := NewBuilder(monoMeasurer{}, DefaultOptions())
	blocks := b.Build(lyrics.Segment{timedLine("all by myself", 5.0, 7.0)})
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	blk := blocks[0]
	if blk.VisibleAt != 4.0 || blk.VisibleUntil != 11.0 {
		t.Fatalf("visible window = [%v, %v], want [4, 11]", blk.VisibleAt, blk.VisibleUntil)
	}
	if _, ok := blk.Second(); ok {
		t.Fatalf("solitary block has a second line")
	}
	c := blk.First()
	if c.Placement != Center {
		t.Fatalf("solitary line placement = %s, want center", c.Placement)
	}
	if c.AnimOffset != 1.0 || c.AnimDuration != 2.0 {
		t.Fatalf("animation window = +%v for %v, want +1 for 2", c.AnimOffset, c.AnimDuration)
	}
	if !c.Animated || len(c.Breakpoints) != 4 {
		t.Fatalf("expected animated clip with 4 breakpoints, got %+v", c)
	}
}

func TestBuild_PairWindow(t *testing.T) {
	b := NewBuilder(monoMeasurer{}, DefaultOptions())
	blocks := b.Build(lyrics.Segment{
		timedLine("first line here", 5.0, 7.0),
		timedLine("and the second", 7.5, 9.0),
	})
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	blk := blocks[0]
	if blk.VisibleAt != 4.0 || blk.VisibleUntil != 13.0 {
		t.Fatalf("visible window = [%v, %v], want [4, 13]", blk.VisibleAt, blk.VisibleUntil)
	}
	second, ok := blk.Second()
	if !ok {
		t.Fatalf("expected a second line")
	}
	if blk.First().Placement != Top || second.Placement != Bottom {
		t.Fatalf("placements = %s/%s, want top/bottom", blk.First().Placement, second.Placement)
	}
	if second.AnimOffset != 3.5 || second.AnimDuration != 1.5 {
		t.Fatalf("second animation = +%v for %v, want +3.5 for 1.5", second.AnimOffset, second.AnimDuration)
	}
	if got := second.Fraction(second.AnimOffset + second.AnimDuration); got != 1 {
		t.Fatalf("second line not fully revealed at its end: %v", got)
	}
	if got := second.Fraction(0); got != 0 {
		t.Fatalf("second line revealed before it starts: %v", got)
	}
}

func TestBuild_SecondLineEndingFirstStillHolds(t *testing.T) {
	// A short second line must not cut the first one's hold.
	first := timedLine("held note", 5.0, 12.0)
	second := timedLine("quick", 6.0, 6.5)
	blk := NewBuilder(monoMeasurer{}, DefaultOptions()).Build(lyrics.Segment{first, second})[0]
	if blk.VisibleUntil != 16.0 {
		t.Fatalf("visible until = %v, want 16", blk.VisibleUntil)
	}
}

func TestBuild_PairingExhaustive(t *testing.T) {
	seg := lyrics.Segment{
		timedLine("one", 1, 2),
		timedLine("two", 2.5, 3),
		timedLine("three", 3.5, 4),
		timedLine("four", 4.5, 5),
		timedLine("five", 5.5, 6),
	}
	blocks := NewBuilder(monoMeasurer{}, DefaultOptions()).Build(seg)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}

	wantPos := []Position{Top, Bottom, Top}
	var seen []string
	for i, blk := range blocks {
		if blk.Position != wantPos[i] {
			t.Fatalf("block %d position = %s, want %s", i, blk.Position, wantPos[i])
		}
		for _, c := range blk.Clips {
			seen = append(seen, c.Text)
		}
	}
	if got := strings.Join(seen, ","); got != "one,two,three,four,five" {
		t.Fatalf("lines out of order or duplicated: %s", got)
	}
	if blocks[2].First().Placement != Center {
		t.Fatalf("trailing odd line should be centered")
	}
}

func TestBuild_MeasurementFailureFallsBackToStatic(t *testing.T) {
	var warnings []string
	b := NewBuilder(brokenMeasurer{}, DefaultOptions())
	b.Warnf = func(format string, args ...any) {
		warnings = append(warnings, format)
	}
	blocks := b.Build(lyrics.Segment{timedLine("no font today", 3, 4)})
	if len(blocks) != 1 {
		t.Fatalf("expected the block to survive, got %d blocks", len(blocks))
	}
	c := blocks[0].First()
	if c.Animated || len(c.Breakpoints) != 0 {
		t.Fatalf("expected a static clip, got %+v", c)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
}
