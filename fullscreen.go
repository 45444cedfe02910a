package lightbox

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

// ViewState is the lifecycle state of a FullscreenView.
type ViewState uint8

const (
	ViewLoading  ViewState = iota // mounted, waiting for the image to load
	ViewEntering                  // growing from the thumbnail to the target
	ViewResting                   // at or settling back to the target
	ViewPanning                   // following a pan
	ViewPinching                  // following a pinch
	ViewExiting                   // shrinking back to the thumbnail
	ViewClosed                    // exit finished or disposed
)

var viewStateNames = [...]string{"loading", "entering", "resting", "panning", "pinching", "exiting", "closed"}

func (s ViewState) String() string {
	if int(s) < len(viewStateNames) {
		return viewStateNames[s]
	}
	return "unknown"
}

// ViewOptions tunes a FullscreenView.
type ViewOptions struct {
	// EnterDuration and ExitDuration time the grow and shrink animations.
	EnterDuration time.Duration
	ExitDuration  time.Duration
	// SettleDuration times the return to the target after a gesture that
	// did not dismiss the view.
	SettleDuration time.Duration
	// MaxEdge bounds the longer side of the loaded fullscreen image.
	MaxEdge int
	// Backdrop is the color of the full-screen layer behind the image.
	Backdrop Color
}

// DefaultViewOptions returns 200 ms enter and exit, a 300 ms settle, a 2048
// pixel edge and a white backdrop.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		EnterDuration:  200 * time.Millisecond,
		ExitDuration:   200 * time.Millisecond,
		SettleDuration: 300 * time.Millisecond,
		MaxEdge:        2048,
		Backdrop:       ColorWhite,
	}
}

// Pan and pinch dismissal thresholds.
const (
	panExitDivisor     = 2.2 // exit when the top edge passes screenH / 2.2
	pinchExitRatio     = 0.9 // exit when min(w/targetW, h/targetH) drops below
	narrowAspect       = 0.5 // images narrower than this shrink by the height curve
	narrowMinWidthRate = 0.3
)

// FullscreenView is the shared-element viewer for one TransitionPayload. It
// grows from the thumbnail rectangle once the image loads, follows pan and
// pinch gestures, and either settles back or collapses to the thumbnail and
// calls onClose.
type FullscreenView struct {
	node    *Node
	backing *Node
	image   *Node

	payload TransitionPayload
	screen  Size
	target  Rect
	opts    ViewOptions

	quad    Quad
	saved   Rect
	flag    *Flag
	onClose func()

	state    ViewState
	tween    *TweenGroup
	race     *GestureRace
	accepted bool // the running gesture session is driving the quad

	logger zerolog.Logger

	// Interpolation tables, kept here so the gesture path never allocates.
	panIn      [3]float64
	panOut     [3]float64
	pinchIn    [6]float64
	pinchOut   [6]float64
	opacityIn  [5]float64
	opacityOut [5]float64
}

// NewFullscreenView builds the view for p on a screen of the given size. flag
// is the registry's animating flag; onClose runs once when the exit
// animation finishes, before the flag drops to 0.
func NewFullscreenView(p TransitionPayload, screen Size, flag *Flag, onClose func(), opts ViewOptions) *FullscreenView {
	v := &FullscreenView{
		payload:    p,
		screen:     screen,
		target:     FullscreenRect(screen, p.Natural, p.Fit),
		opts:       opts,
		flag:       flag,
		onClose:    onClose,
		state:      ViewLoading,
		logger:     zerolog.Nop(),
		pinchIn:    [6]float64{0, 0.2, 0.4, 0.6, 0.8, 1},
		pinchOut:   [6]float64{0, 0.1, 0.2, 0.4, 0.7, 1},
		panOut:     [3]float64{1, 0.8, 0.6},
		opacityOut: [5]float64{0, 0.5, 0.7, 0.9, 1},
	}
	v.panIn = [3]float64{v.target.Y, v.target.Y + 100, v.target.Y + 200}
	for i, f := range [5]float64{0.6, 0.7, 0.8, 0.9, 1} {
		v.opacityIn[i] = v.target.Width * f
	}
	v.quad.Store(p.Container)

	v.node = NewContainer("fullscreen")
	v.node.Interactable = true
	v.node.HitShape = HitRect{Width: screen.Width, Height: screen.Height}
	v.node.OnUpdate = v.Update

	v.backing = NewSprite("fullscreen_backing", nil)
	v.backing.ScaleX, v.backing.ScaleY = screen.Width, screen.Height
	v.backing.Color = opts.Backdrop
	v.node.AddChild(v.backing)

	v.image = NewImage("fullscreen_image", p.Container.Width, p.Container.Height, p.Fit)
	v.node.AddChild(v.image)

	v.race = NewGestureRace(
		&PanGesture{OnStart: v.panStart, OnUpdate: v.panUpdate, OnEnd: v.panEnd},
		&PinchGesture{OnStart: v.pinchStart, OnUpdate: v.pinchUpdate, OnEnd: v.pinchEnd},
	)
	v.race.Attach(v.node)

	v.sync()
	return v
}

// SetLogger sets the logger used for state transitions.
func (v *FullscreenView) SetLogger(l zerolog.Logger) {
	v.logger = l
}

// Node returns the view's root node.
func (v *FullscreenView) Node() *Node { return v.node }

// State returns the current lifecycle state.
func (v *FullscreenView) State() ViewState { return v.state }

// Payload returns the payload the view was built for.
func (v *FullscreenView) Payload() TransitionPayload { return v.payload }

// Target returns the fullscreen rest rectangle.
func (v *FullscreenView) Target() Rect { return v.target }

// Rect returns the current animated rectangle.
func (v *FullscreenView) Rect() Rect { return v.quad.Load() }

// Race returns the gesture race wired to the view's node.
func (v *FullscreenView) Race() *GestureRace { return v.race }

// Opacity returns the backdrop opacity for the current width.
func (v *FullscreenView) Opacity() float64 {
	if v.target.Width <= 0 {
		return 1
	}
	return Interpolate(v.quad.Width.Load(), v.opacityIn[:], v.opacityOut[:], ExtrapolateClamp)
}

// Load requests the fullscreen image. The enter animation starts when it
// arrives; a failure collapses the view.
func (v *FullscreenView) Load(loader ImageLoader) {
	req := LoadRequest{Source: v.payload.Source, MaxEdge: v.opts.MaxEdge}
	loader.Load(req, func(res LoadResult) {
		if v.state != ViewLoading {
			return
		}
		if res.Err != nil {
			v.ImageFailed(res.Err)
			return
		}
		if res.Image != nil {
			v.image.SetCustomImage(toEbitenImage(res.Image))
		}
		v.ImageLoaded()
	})
}

// ImageLoaded starts the enter animation. Ignored unless the view is still
// waiting for its image.
func (v *FullscreenView) ImageLoaded() {
	if v.state != ViewLoading {
		return
	}
	v.flag.Set(true)
	v.setState(ViewEntering)
	v.animate(v.target, v.opts.EnterDuration, func() {
		if v.state == ViewEntering {
			v.setState(ViewResting)
		}
	})
}

// ImageFailed collapses the view back to the thumbnail.
func (v *FullscreenView) ImageFailed(err error) {
	if v.state != ViewLoading {
		return
	}
	v.logger.Warn().Err(err).Str("asset", v.payload.AssetID).Msg("fullscreen image failed to load")
	v.flag.Set(true)
	v.exit()
}

// Update advances the running animation and lays out the nodes. It runs as
// the node's OnUpdate.
func (v *FullscreenView) Update(dt float64) {
	if t := v.tween; t != nil {
		t.Update(float32(dt))
		if t.Done && v.tween == t {
			v.tween = nil
		}
	}
	v.sync()
}

// Dispose abandons any animation and gesture without running completions
// and removes the view's nodes.
func (v *FullscreenView) Dispose() {
	v.stopTween()
	v.race.Cancel()
	switch v.state {
	case ViewEntering, ViewResting, ViewPanning, ViewPinching, ViewExiting:
		v.flag.Set(false)
	}
	v.state = ViewClosed
	v.node.Dispose()
}

func (v *FullscreenView) setState(s ViewState) {
	v.logger.Debug().Str("asset", v.payload.AssetID).Stringer("from", v.state).Stringer("to", s).Msg("fullscreen view")
	v.state = s
}

func (v *FullscreenView) sync() {
	r := v.quad.Load()
	v.image.X, v.image.Y = r.X, r.Y
	v.image.SetSize(r.Width, r.Height)
	v.image.MarkDirty()
	v.backing.SetAlpha(v.Opacity())
}

func (v *FullscreenView) animate(to Rect, d time.Duration, done func()) {
	v.stopTween()
	v.tween = TweenQuad(&v.quad, to, float32(d.Seconds()), ease.InOutQuad).OnComplete(done)
}

func (v *FullscreenView) stopTween() {
	if v.tween != nil {
		v.tween.Cancel()
		v.tween = nil
	}
}

// beginGesture reports whether a gesture may take over the quad, stopping
// an enter or settle animation if one is running.
func (v *FullscreenView) beginGesture(s ViewState) bool {
	switch v.state {
	case ViewEntering, ViewResting:
	default:
		v.accepted = false
		return false
	}
	v.stopTween()
	v.saved = v.quad.Load()
	v.accepted = true
	v.setState(s)
	return true
}

func (v *FullscreenView) settle() {
	v.setState(ViewResting)
	v.animate(v.target, v.opts.SettleDuration, nil)
}

func (v *FullscreenView) exit() {
	v.setState(ViewExiting)
	v.animate(v.payload.Container, v.opts.ExitDuration, v.finish)
}

// finish runs once, on the last frame of the exit animation.
func (v *FullscreenView) finish() {
	if v.state != ViewExiting {
		return
	}
	v.setState(ViewClosed)
	if v.onClose != nil {
		v.onClose()
	}
	v.flag.Set(false)
}

// --- Pan ---

func (v *FullscreenView) panStart(PanEvent) {
	v.beginGesture(ViewPanning)
}

func (v *FullscreenView) panUpdate(ev PanEvent) {
	if !v.accepted || v.state != ViewPanning {
		return
	}
	s := v.saved
	scale := Interpolate(s.Y+ev.TranslationY, v.panIn[:], v.panOut[:], ExtrapolateClamp)
	w := s.Width * scale
	h := s.Height * scale
	cx := s.X + s.Width/2
	cy := s.Y + s.Height/2
	v.quad.Store(Rect{
		X:      cx - w/2 + ev.TranslationX,
		Y:      cy - h/2 + ev.TranslationY,
		Width:  w,
		Height: h,
	})
}

func (v *FullscreenView) panEnd(PanEvent) {
	if !v.accepted || v.state != ViewPanning {
		return
	}
	v.accepted = false
	if v.quad.Y.Load() > v.screen.Height/panExitDivisor {
		v.exit()
		return
	}
	v.settle()
}

// --- Pinch ---

func (v *FullscreenView) pinchStart(PinchEvent) {
	v.beginGesture(ViewPinching)
}

func (v *FullscreenView) pinchUpdate(ev PinchEvent) {
	if !v.accepted || v.state != ViewPinching || ev.Scale >= 1 {
		return
	}
	s := v.saved
	wf, hf := ev.Scale, ev.Scale
	if v.payload.Natural.Aspect() < narrowAspect {
		wf = max(ev.Scale, narrowMinWidthRate)
		hf = Interpolate(ev.Scale, v.pinchIn[:], v.pinchOut[:], ExtrapolateExtend)
	}
	w := min(s.Width*wf, s.Width)
	h := min(s.Height*hf, s.Height)
	x := s.X + ev.FocalX - w*(ev.FocalX/s.Width)
	y := ev.FocalY - h/2
	v.quad.Store(Rect{X: x, Y: y, Width: w, Height: h})
}

func (v *FullscreenView) pinchEnd(PinchEvent) {
	if !v.accepted || v.state != ViewPinching {
		return
	}
	v.accepted = false
	r := v.quad.Load()
	ratio := min(r.Width/v.target.Width, r.Height/v.target.Height)
	if ratio < pinchExitRatio {
		v.exit()
		return
	}
	v.settle()
}
