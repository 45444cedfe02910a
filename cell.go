package lightbox

import (
	"math"
	"sync/atomic"
)

// Value is an animated scalar cell. It has one writer (the view or tween that
// owns it) and any number of readers; loads and stores are atomic, so the
// draw pass can read a value the update pass is writing without locks.
type Value struct {
	bits atomic.Uint64
}

// Load returns the current value.
func (v *Value) Load() float64 {
	return math.Float64frombits(v.bits.Load())
}

// Store sets the current value.
func (v *Value) Store(f float64) {
	v.bits.Store(math.Float64bits(f))
}

// Quad is the animated rectangle of the fullscreen view: four Value cells
// written together by one owner.
type Quad struct {
	X, Y, Width, Height Value
}

// Load returns the quad as a Rect.
func (q *Quad) Load() Rect {
	return Rect{q.X.Load(), q.Y.Load(), q.Width.Load(), q.Height.Load()}
}

// Store writes all four components.
func (q *Quad) Store(r Rect) {
	q.X.Store(r.X)
	q.Y.Store(r.Y)
	q.Width.Store(r.Width)
	q.Height.Store(r.Height)
}

// Flag is the shared 0/1 animating indicator. The registry owns it; only the
// active fullscreen view writes it.
type Flag struct {
	v atomic.Uint32
}

// Set stores 1 when on is true and 0 otherwise.
func (f *Flag) Set(on bool) {
	if on {
		f.v.Store(1)
		return
	}
	f.v.Store(0)
}

// On reports whether the flag is 1.
func (f *Flag) On() bool {
	return f.v.Load() == 1
}

// Value returns the flag as 0 or 1, for use as an interpolation input.
func (f *Flag) Value() float64 {
	return float64(f.v.Load())
}
