package palette

import "math"

// Threshold picks low at or below lo, high at or above hi and med otherwise.
// NaN falls into the low bucket; infinities land in their end bucket.
func Threshold(value, lo, hi float64, low, med, high Color) Color {
	switch {
	case math.IsNaN(value), value <= lo:
		return low
	case value >= hi:
		return high
	default:
		return med
	}
}

// Scale bundles a breakpoint pair with its three colours.
type Scale struct {
	Lo, Hi         float64
	Low, Med, High Color
}

func (s Scale) Pick(value float64) Color {
	return Threshold(value, s.Lo, s.Hi, s.Low, s.Med, s.High)
}

// NewScale builds a Scale from a [lo, hi] pair and exactly three colours.
// Malformed input yields a scale that always returns the first colour given,
// or the zero colour.
func NewScale(bounds []float64, colors []Color) Scale {
	if len(bounds) != 2 || len(colors) != 3 {
		var c Color
		if len(colors) > 0 {
			c = colors[0]
		}
		return Scale{Lo: math.Inf(1), Hi: math.Inf(1), Low: c, Med: c, High: c}
	}

	return Scale{Lo: bounds[0], Hi: bounds[1], Low: colors[0], Med: colors[1], High: colors[2]}
}
