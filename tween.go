package lightbox

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 Value cells simultaneously. Create one with
// TweenQuad or TweenValue and call Update(dt) each frame. When every tween has
// finished the cells hold the exact targets, Done is set, and the completion
// callback (if any) runs once.
//
// There is no global animation manager; the owner calls Update itself.
type TweenGroup struct {
	tweens     [4]*gween.Tween
	to         [4]float64
	fields     [4]*Value
	count      int
	onComplete func()
	Done       bool
}

// Update advances all tweens by dt seconds and writes the values to the
// target cells.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		if finished {
			g.fields[i].Store(g.to[i])
			continue
		}
		g.fields[i].Store(float64(val))
		allDone = false
	}
	if !allDone {
		return
	}
	g.Done = true
	if fn := g.onComplete; fn != nil {
		g.onComplete = nil
		fn()
	}
}

// OnComplete sets the callback run once when the group finishes. It is never
// run for a cancelled group.
func (g *TweenGroup) OnComplete(fn func()) *TweenGroup {
	g.onComplete = fn
	return g
}

// Cancel stops the group where it is. The completion callback is dropped.
func (g *TweenGroup) Cancel() {
	g.Done = true
	g.onComplete = nil
}

func (g *TweenGroup) add(v *Value, to float64, duration float32, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(v.Load()), float32(to), duration, fn)
	g.to[g.count] = to
	g.fields[g.count] = v
	g.count++
}

// TweenQuad creates a TweenGroup that animates all four components of q to
// the target rectangle over duration seconds using the easing function.
func TweenQuad(q *Quad, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(&q.X, to.X, duration, fn)
	g.add(&q.Y, to.Y, duration, fn)
	g.add(&q.Width, to.Width, duration, fn)
	g.add(&q.Height, to.Height, duration, fn)
	return g
}

// TweenValue creates a TweenGroup that animates a single cell.
func TweenValue(v *Value, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{}
	g.add(v, to, duration, fn)
	return g
}
