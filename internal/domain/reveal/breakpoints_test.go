package reveal

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/forPelevin/lyricvid/internal/types"
)

// runeMeasurer gives every rune the same advance, like a monospace font.
type runeMeasurer struct{ advance float64 }

func (m runeMeasurer) MeasureWidth(text string) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * m.advance, nil
}

type failingMeasurer struct{ width float64 }

func (m failingMeasurer) MeasureWidth(string) (float64, error) {
	if m.width != 0 {
		return m.width, nil
	}
	return 0, errors.New("no font")
}

func testLine() types.Line {
	return types.Line{Words: []types.Word{
		{Text: "never", Start: 10.0, End: 10.4},
		{Text: "gonna", Start: 10.5, End: 10.9},
		{Text: "give", Start: 11.0, End: 11.3},
		{Text: "you", Start: 11.3, End: 11.3},
		{Text: "up", Start: 11.5, End: 12.0},
	}}
}

func TestBreakpoints_Monotonic(t *testing.T) {
	bps, err := Breakpoints(testLine(), runeMeasurer{advance: 24})
	if err != nil {
		t.Fatalf("breakpoints: %v", err)
	}
	if len(bps) != 6 {
		t.Fatalf("expected one breakpoint per word plus terminal, got %d", len(bps))
	}
	for i := 1; i < len(bps); i++ {
		if bps[i].Offset < bps[i-1].Offset {
			t.Fatalf("offset decreased at %d: %v -> %v", i, bps[i-1].Offset, bps[i].Offset)
		}
		if bps[i].Fraction < bps[i-1].Fraction {
			t.Fatalf("fraction decreased at %d: %v -> %v", i, bps[i-1].Fraction, bps[i].Fraction)
		}
	}
	last := bps[len(bps)-1]
	if last.Fraction != 1.0 {
		t.Fatalf("terminal fraction = %v, want 1", last.Fraction)
	}
	if last.Offset != 2.0 {
		t.Fatalf("terminal offset = %v, want 2", last.Offset)
	}
	// "never " is 6 of the 23 runes in "never gonna give you up".
	if got, want := bps[0].Fraction, 6.0/23.0; abs(got-want) > 1e-9 {
		t.Fatalf("first fraction = %v, want %v", got, want)
	}
	if bps[0].Offset < 0.4-1e-9 || bps[0].Offset > 0.4+1e-9 {
		t.Fatalf("first offset = %v, want 0.4", bps[0].Offset)
	}
}

func TestBreakpoints_FractionCapped(t *testing.T) {
	bps, err := Breakpoints(testLine(), runeMeasurer{advance: 10})
	if err != nil {
		t.Fatalf("breakpoints: %v", err)
	}
	// Trailing spaces make the running width overshoot the full width.
	for _, b := range bps {
		if b.Fraction > 1 {
			t.Fatalf("fraction above 1: %v", b.Fraction)
		}
	}
}

func TestBreakpoints_MeasurementFailure(t *testing.T) {
	tests := []struct {
		name string
		m    Measurer
	}{
		{"error", failingMeasurer{}},
		{"zero width", failingMeasurer{width: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Breakpoints(testLine(), tt.m)
			if !errors.Is(err, ErrMeasure) {
				t.Fatalf("expected ErrMeasure, got %v", err)
			}
		})
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
