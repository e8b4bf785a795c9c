package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/forPelevin/lyricvid/internal/domain/timeline"
)

// Style describes the canvas and the look of the burned-in lyrics.
// Colours are "#RRGGBB".
type Style struct {
	Width      int
	Height     int
	AreaHeight int // height of the lyric area, centered on the canvas
	Font       string
	FontSize   int
	LineGap    int
	Color      string
	Active     string
	Border     string
	BorderSize int
	Uppercase  bool
}

func DefaultStyle() Style {
	return Style{
		Width:      720,
		Height:     405,
		AreaHeight: 405 - 140,
		Font:       "Go",
		FontSize:   40,
		LineGap:    20,
		Color:      "#FFFFFF",
		Active:     "#FFA500",
		Border:     "#000000",
		BorderSize: 4,
		Uppercase:  true,
	}
}

// RenderLyricsASS renders clip descriptors as an ASS script. Animated lines
// use \kf fills timed from their breakpoints, so the reveal follows the
// same curve as reveal.Fraction.
func RenderLyricsASS(clips []timeline.ClipDescriptor, st Style) (string, error) {
	header, err := assHeader(st)
	if err != nil {
		return "", err
	}
	base, err := assColor(st.Color)
	if err != nil {
		return "", fmt.Errorf("text colour: %w", err)
	}
	r := renderer{
		upper:     cases.Upper(language.Und),
		uppercase: st.Uppercase,
		static:    "&H" + base[4:] + "&",
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range clips {
		start := dur(math.Max(c.Start, 0))
		end := dur(c.End)
		if end <= start {
			continue
		}
		// Lines whose window starts before zero lose the clipped lead-in.
		clipped := start - dur(c.Start)
		ys := lineTops(c, st)
		for i, ln := range c.Lines {
			text := r.text(ln.Text)
			if text == "" {
				continue
			}
			b.WriteString("Dialogue: 0,")
			b.WriteString(assTime(start))
			b.WriteString(",")
			b.WriteString(assTime(end))
			b.WriteString(",Lyrics,,0,0,0,,")
			fmt.Fprintf(&b, "{\\an8\\pos(%d,%d)\\fad(%d,%d)}", st.Width/2, ys[i],
				dur(c.CrossfadeIn).Milliseconds(), dur(c.CrossfadeOut).Milliseconds())
			b.WriteString(r.karaoke(ln, text, clipped))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

type renderer struct {
	upper     cases.Caser
	uppercase bool
	static    string // base colour as an override tag value
}

func (r renderer) text(s string) string {
	s = sanitizeASS(s)
	if r.uppercase {
		s = r.upper.String(s)
	}
	return s
}

// karaoke returns the dialogue text for one line. Static lines are drawn
// in the base colour without fills.
func (r renderer) karaoke(ln timeline.LineClip, text string, clipped time.Duration) string {
	words := ln.Line.Words
	if !ln.Animated || len(words) == 0 || len(ln.Breakpoints) != len(words)+1 {
		return "{\\1c" + r.static + "}" + text
	}
	var b strings.Builder
	lead := dur(ln.AnimOffset) - clipped
	if lead > 0 {
		fmt.Fprintf(&b, "{\\k%d}", centis(lead))
	}
	prev := 0.0
	for i, w := range words {
		off := ln.Breakpoints[i].Offset
		wt := r.text(w.Text)
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "{\\kf%d}%s", centis(dur(math.Max(off-prev, 0))), wt)
		prev = math.Max(prev, off)
	}
	return b.String()
}

// lineTops returns the top y of each line in the descriptor. Blocks sit at
// the top or bottom edge of the lyric area; title cards are centered.
func lineTops(c timeline.ClipDescriptor, st Style) []int {
	n := len(c.Lines)
	blockH := n*st.FontSize + max(n-1, 0)*st.LineGap
	areaTop := (st.Height - st.AreaHeight) / 2

	var y int
	switch c.Position {
	case timeline.Top:
		y = areaTop
	case timeline.Bottom:
		y = areaTop + st.AreaHeight - blockH
	default:
		y = (st.Height - blockH) / 2
	}
	out := make([]int, n)
	for i := range out {
		out[i] = y + i*(st.FontSize+st.LineGap)
	}
	return out
}

func assHeader(st Style) (string, error) {
	primary, err := assColor(st.Active)
	if err != nil {
		return "", fmt.Errorf("active colour: %w", err)
	}
	secondary, err := assColor(st.Color)
	if err != nil {
		return "", fmt.Errorf("text colour: %w", err)
	}
	outline, err := assColor(st.Border)
	if err != nil {
		return "", fmt.Errorf("border colour: %w", err)
	}
	return fmt.Sprintf(strings.TrimSpace(`
[Script Info]
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d
WrapStyle: 2
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Lyrics, %s, %d, %s, %s, %s, &H00000000, 0,0,0,0,100,100,0,0,1,%d,0,8, 0,0,0,1
`), st.Width, st.Height, st.Font, st.FontSize, primary, secondary, outline, st.BorderSize), nil
}

// assColor converts "#RRGGBB" to the &HAABBGGRR form used by ASS.
func assColor(hex string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(h) != 6 {
		return "", fmt.Errorf("invalid colour %q", hex)
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return "", fmt.Errorf("invalid colour %q", hex)
	}
	h = strings.ToUpper(h)
	return "&H00" + h[4:6] + h[2:4] + h[0:2], nil
}

func assTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hs := int(d / time.Hour)
	d -= time.Duration(hs) * time.Hour
	ms := int(d / time.Minute)
	d -= time.Duration(ms) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	cs := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%d:%02d:%02d.%02d", hs, ms, s, cs)
}

func centis(d time.Duration) int {
	return int(math.Round(float64(d) / float64(10*time.Millisecond)))
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
