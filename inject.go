package lightbox

// syntheticPointerEvent represents a single injected pointer event in screen
// coordinates.
type syntheticPointerEvent struct {
	pointerID        int
	screenX, screenY float64
	pressed          bool
	button           MouseButton
}

// syntheticFrame groups the pointer events consumed in one frame. A pinch
// moves two pointers per frame; everything else moves one.
type syntheticFrame struct {
	events [2]syntheticPointerEvent
	n      int
}

func (s *Scene) injectOne(evt syntheticPointerEvent) {
	s.injectQueue = append(s.injectQueue, syntheticFrame{events: [2]syntheticPointerEvent{evt}, n: 1})
}

func (s *Scene) injectTwo(a, b syntheticPointerEvent) {
	s.injectQueue = append(s.injectQueue, syntheticFrame{events: [2]syntheticPointerEvent{a, b}, n: 2})
}

// InjectPress queues a pointer press event at the given screen coordinates
// (left button). The event is consumed on the next frame's processInput call.
func (s *Scene) InjectPress(x, y float64) {
	s.injectOne(syntheticPointerEvent{screenX: x, screenY: y, pressed: true, button: MouseButtonLeft})
}

// InjectMove queues a pointer move event at the given screen coordinates
// with the button held down. Use this between InjectPress and InjectRelease
// to simulate a drag.
func (s *Scene) InjectMove(x, y float64) {
	s.injectOne(syntheticPointerEvent{screenX: x, screenY: y, pressed: true, button: MouseButtonLeft})
}

// InjectRelease queues a pointer release event at the given screen coordinates.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectOne(syntheticPointerEvent{screenX: x, screenY: y, pressed: false, button: MouseButtonLeft})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). The total sequence consumes `frames` frames.
// Minimum frames is 2 (press + release).
func (s *Scene) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// Touch slots used for injected pinches.
const (
	injectPinchA = 1
	injectPinchB = 2
)

// InjectPinch queues a horizontal two-finger pinch centered on (cx, cy). The
// fingers start fromDist apart and end toDist apart. The sequence consumes
// `frames` frames: both fingers down, frames-2 moves, both fingers up.
func (s *Scene) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	at := func(dist float64, pressed bool) (syntheticPointerEvent, syntheticPointerEvent) {
		return syntheticPointerEvent{pointerID: injectPinchA, screenX: cx - dist/2, screenY: cy, pressed: pressed, button: MouseButtonLeft},
			syntheticPointerEvent{pointerID: injectPinchB, screenX: cx + dist/2, screenY: cy, pressed: pressed, button: MouseButtonLeft}
	}
	s.injectTwo(at(fromDist, true))
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.injectTwo(at(fromDist+(toDist-fromDist)*t, true))
	}
	s.injectTwo(at(toDist, false))
}

// processInjectedInput pops one frame from the inject queue and feeds its
// events through processPointer. Returns true if a frame was consumed (real
// input should be skipped).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	frame := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	for i := 0; i < frame.n; i++ {
		evt := frame.events[i]
		s.processPointer(evt.pointerID, evt.screenX, evt.screenY, evt.pressed, evt.button)
	}
	return true
}
