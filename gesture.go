package lightbox

// PanEvent is the cumulative pointer movement since the pan began.
type PanEvent struct {
	TranslationX, TranslationY float64
}

// PinchEvent carries the pinch scale relative to the finger distance at the
// start, and the focal point between the fingers in screen space.
type PinchEvent struct {
	Scale          float64
	FocalX, FocalY float64
}

// PanGesture receives one pan session: OnStart, any number of OnUpdate, then
// OnEnd. Nil callbacks are skipped.
type PanGesture struct {
	OnStart  func(PanEvent)
	OnUpdate func(PanEvent)
	OnEnd    func(PanEvent)
}

// PinchGesture receives one pinch session, ordered like PanGesture.
type PinchGesture struct {
	OnStart  func(PinchEvent)
	OnUpdate func(PinchEvent)
	OnEnd    func(PinchEvent)
}

// GestureKind identifies which recognizer owns the current session.
type GestureKind uint8

const (
	GestureNone GestureKind = iota
	GesturePan
	GesturePinch
)

func (k GestureKind) String() string {
	switch k {
	case GesturePan:
		return "pan"
	case GesturePinch:
		return "pinch"
	default:
		return "none"
	}
}

// GestureRace arbitrates a pan and a pinch recognizer attached to the same
// node. The first to recognize wins the session; the other's events are
// dropped until the winner ends. Wire it to a node with Attach.
type GestureRace struct {
	pan   *PanGesture
	pinch *PinchGesture

	active     GestureKind
	muted      bool // session cancelled; swallow its remaining events
	panPointer int
	lastPan    PanEvent
	lastPinch  PinchEvent
}

// NewGestureRace returns a race between pan and pinch. Either may be nil.
func NewGestureRace(pan *PanGesture, pinch *PinchGesture) *GestureRace {
	if pan == nil {
		pan = &PanGesture{}
	}
	if pinch == nil {
		pinch = &PinchGesture{}
	}
	return &GestureRace{pan: pan, pinch: pinch}
}

// Attach routes n's drag and pinch callbacks through the race, replacing
// any callbacks already set.
func (r *GestureRace) Attach(n *Node) {
	n.OnDragStart = r.DragStart
	n.OnDrag = r.Drag
	n.OnDragEnd = r.DragEnd
	n.OnPinch = r.Pinch
}

// Active returns the recognizer that owns the current session.
func (r *GestureRace) Active() GestureKind {
	return r.active
}

// Cancel ends the current session without calling OnEnd. Its remaining
// events are dropped.
func (r *GestureRace) Cancel() {
	if r.active != GestureNone {
		r.muted = true
	}
}

// DragStart starts a pan session unless another session is running.
func (r *GestureRace) DragStart(ctx DragContext) {
	if r.active != GestureNone {
		return
	}
	r.active = GesturePan
	r.muted = false
	r.panPointer = ctx.PointerID
	r.lastPan = PanEvent{ctx.GlobalX - ctx.StartX, ctx.GlobalY - ctx.StartY}
	if r.pan.OnStart != nil {
		r.pan.OnStart(r.lastPan)
	}
}

// Drag forwards movement of the pan pointer.
func (r *GestureRace) Drag(ctx DragContext) {
	if r.active != GesturePan || ctx.PointerID != r.panPointer {
		return
	}
	r.lastPan = PanEvent{ctx.GlobalX - ctx.StartX, ctx.GlobalY - ctx.StartY}
	if r.muted || r.pan.OnUpdate == nil {
		return
	}
	r.pan.OnUpdate(r.lastPan)
}

// DragEnd ends the pan session when its pointer lifts.
func (r *GestureRace) DragEnd(ctx DragContext) {
	if r.active != GesturePan || ctx.PointerID != r.panPointer {
		return
	}
	r.lastPan = PanEvent{ctx.GlobalX - ctx.StartX, ctx.GlobalY - ctx.StartY}
	muted := r.muted
	r.active = GestureNone
	r.muted = false
	if !muted && r.pan.OnEnd != nil {
		r.pan.OnEnd(r.lastPan)
	}
}

// Pinch drives the pinch session from the scene's pinch phases.
func (r *GestureRace) Pinch(ctx PinchContext) {
	ev := PinchEvent{Scale: ctx.Scale, FocalX: ctx.CenterX, FocalY: ctx.CenterY}
	switch ctx.Phase {
	case PinchBegan:
		if r.active != GestureNone {
			return
		}
		r.active = GesturePinch
		r.muted = false
		r.lastPinch = ev
		if r.pinch.OnStart != nil {
			r.pinch.OnStart(ev)
		}
	case PinchChanged:
		if r.active != GesturePinch {
			return
		}
		r.lastPinch = ev
		if !r.muted && r.pinch.OnUpdate != nil {
			r.pinch.OnUpdate(ev)
		}
	case PinchEnded:
		if r.active != GesturePinch {
			return
		}
		muted := r.muted
		r.active = GestureNone
		r.muted = false
		if !muted && r.pinch.OnEnd != nil {
			r.pinch.OnEnd(r.lastPinch)
		}
	}
}
