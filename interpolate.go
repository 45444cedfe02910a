package lightbox

// Extrapolation selects what Interpolate does outside its input range.
type Extrapolation uint8

const (
	ExtrapolateClamp  Extrapolation = iota // pin to the first / last output
	ExtrapolateExtend                      // continue the first / last segment linearly
)

// Interpolate maps x through the piecewise-linear curve defined by the
// breakpoints in and out. in must be strictly monotonic (ascending or
// descending) and the same length as out, with at least two entries.
// Outside the input range the result follows ex.
//
// Interpolate does not allocate and is safe to call from the per-frame path.
func Interpolate(x float64, in, out []float64, ex Extrapolation) float64 {
	n := len(in)
	if n < 2 || n != len(out) {
		panic("lightbox: Interpolate needs matching input and output ranges of at least two points")
	}
	desc := in[0] > in[n-1]

	// past reports whether x lies beyond breakpoint b in the direction of the range.
	past := func(b float64) bool {
		if desc {
			return x < b
		}
		return x > b
	}

	if ex == ExtrapolateClamp {
		if !past(in[0]) && x != in[0] {
			return out[0]
		}
		if past(in[n-1]) {
			return out[n-1]
		}
	}

	seg := 0
	for seg < n-2 && past(in[seg+1]) {
		seg++
	}
	x0, x1 := in[seg], in[seg+1]
	y0, y1 := out[seg], out[seg+1]
	if x1 == x0 {
		return y1
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}
