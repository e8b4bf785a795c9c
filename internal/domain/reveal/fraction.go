package reveal

// Fraction returns how much of a line is revealed t seconds after its
// animation starts, interpolating linearly between breakpoints. The result is
// in [0,1] and never decreases as t grows.
func Fraction(bps []Breakpoint, t float64) float64 {
	if len(bps) == 0 {
		return 1
	}
	// The terminal breakpoint wins over earlier ones sharing its offset.
	if last := bps[len(bps)-1]; t >= last.Offset {
		return clamp01(last.Fraction)
	}
	cur := Breakpoint{}
	next := bps[len(bps)-1]
	for _, b := range bps {
		if b.Offset >= t {
			next = b
			break
		}
		cur = b
	}

	span := next.Offset - cur.Offset
	if span <= 0 {
		return clamp01(next.Fraction)
	}
	progress := (t - cur.Offset) / span
	return clamp01(cur.Fraction + progress*(next.Fraction-cur.Fraction))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
