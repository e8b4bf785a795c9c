package timeline

import (
	"github.com/forPelevin/lyricvid/internal/domain/reveal"
	"github.com/forPelevin/lyricvid/internal/types"
)

type Position string

const (
	Top    Position = "top"
	Center Position = "center"
	Bottom Position = "bottom"
)

type Kind string

const (
	KindTitle  Kind = "title"
	KindLyrics Kind = "lyrics"
)

// Options holds the timing constants of the layout, in seconds.
type Options struct {
	OffsetStart float64 `yaml:"offset_start"` // lead-in before the first line of a pair
	OffsetEnd   float64 `yaml:"offset_end"`   // hold after the last line of a pair
	TrimEnd     float64 `yaml:"trim_end"`     // cut from the hold when composing
	FadeIn      float64 `yaml:"fade_in"`
	FadeOut     float64 `yaml:"fade_out"`
	TitleLead   float64 `yaml:"title_lead"` // silence kept between title and first line
	TitleMax    float64 `yaml:"title_max"`
	TitleMin    float64 `yaml:"title_min"`
}

func DefaultOptions() Options {
	return Options{
		OffsetStart: 1.0,
		OffsetEnd:   4.0,
		TrimEnd:     3.0,
		FadeIn:      0.2,
		FadeOut:     1.1,
		TitleLead:   3.0,
		TitleMax:    3.0,
		TitleMin:    1.0,
	}
}

// LineClip is one line inside a block. AnimOffset is relative to the
// block's VisibleAt; the reveal runs for AnimDuration from there.
type LineClip struct {
	Line         types.Line          `yaml:"line"`
	Text         string              `yaml:"text"`
	Placement    Position            `yaml:"placement"`
	Animated     bool                `yaml:"animated"`
	AnimOffset   float64             `yaml:"anim_offset"`
	AnimDuration float64             `yaml:"anim_duration"`
	Breakpoints  []reveal.Breakpoint `yaml:"breakpoints,omitempty"`
}

// Fraction is the revealed share of the clip at t seconds after VisibleAt.
func (c LineClip) Fraction(t float64) float64 {
	if !c.Animated {
		return 0
	}
	return reveal.Fraction(c.Breakpoints, t-c.AnimOffset)
}

// PairBlock shows one or two lines with a shared visibility window.
type PairBlock struct {
	Clips        []LineClip `yaml:"clips"`
	VisibleAt    float64    `yaml:"visible_at"`
	VisibleUntil float64    `yaml:"visible_until"`
	Position     Position   `yaml:"position"`
}

func (b PairBlock) First() LineClip { return b.Clips[0] }

// Second reports the bottom line of the pair, if any.
func (b PairBlock) Second() (LineClip, bool) {
	if len(b.Clips) < 2 {
		return LineClip{}, false
	}
	return b.Clips[1], true
}

type TitleBlock struct {
	Song     string  `yaml:"song"`
	Artist   string  `yaml:"artist"`
	Duration float64 `yaml:"duration"`
}

// ClipDescriptor is what the renderer receives: a positioned, timed block.
type ClipDescriptor struct {
	Kind         Kind       `yaml:"kind"`
	Start        float64    `yaml:"start"`
	End          float64    `yaml:"end"`
	Position     Position   `yaml:"position"`
	CrossfadeIn  float64    `yaml:"crossfade_in"`
	CrossfadeOut float64    `yaml:"crossfade_out"`
	Lines        []LineClip `yaml:"lines"`
}

func (d ClipDescriptor) Duration() float64 { return d.End - d.Start }
