package lightbox

import "testing"

func TestInjectClick(t *testing.T) {
	s := NewScene()
	sprite := newHitSprite("s", 0, 0, 100, 100)
	s.Root().AddChild(sprite)
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	var clicked bool
	s.OnClick(func(ctx ClickContext) {
		clicked = true
		if ctx.Node != sprite {
			t.Error("expected sprite node")
		}
	})

	s.InjectClick(50, 50)
	if len(s.injectQueue) != 2 {
		t.Fatalf("expected 2 queued frames, got %d", len(s.injectQueue))
	}

	// Frame 1: press
	s.processInput()
	if clicked {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release → click fires
	s.processInput()
	if len(s.injectQueue) != 0 {
		t.Fatalf("expected empty queue after frame 2, got %d", len(s.injectQueue))
	}
	if !clicked {
		t.Error("click should fire on release frame")
	}
}

func TestInjectDrag(t *testing.T) {
	s := NewScene()
	sprite := newHitSprite("s", 0, 0, 400, 400)
	s.Root().AddChild(sprite)
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	var events []string
	var lastDelta float64
	s.OnDragStart(func(ctx DragContext) { events = append(events, "dragstart") })
	s.OnDrag(func(ctx DragContext) {
		events = append(events, "drag")
		lastDelta = ctx.DeltaX
	})
	s.OnDragEnd(func(ctx DragContext) { events = append(events, "dragend") })

	// press, three moves of 47.5 px, release
	s.InjectDrag(10, 10, 200, 200, 5)
	if len(s.injectQueue) != 5 {
		t.Fatalf("expected 5 queued frames, got %d", len(s.injectQueue))
	}
	for i := 0; i < 5; i++ {
		s.processInput()
	}

	want := []string{"dragstart", "drag", "drag", "drag", "dragend"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, events[i], want[i])
		}
	}
	assertNear(t, "last DeltaX", lastDelta, 47.5)
}

func TestInjectDrag_MinFrames(t *testing.T) {
	s := NewScene()
	s.InjectDrag(0, 0, 100, 100, 1)
	if len(s.injectQueue) != 2 {
		t.Errorf("expected 2 frames (clamped minimum), got %d", len(s.injectQueue))
	}
}

func TestInjectPinchFrames(t *testing.T) {
	s := NewScene()
	s.InjectPinch(100, 100, 200, 50, 5)
	if len(s.injectQueue) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(s.injectQueue))
	}
	first := s.injectQueue[0]
	if first.n != 2 {
		t.Fatalf("pinch frame carries %d events, want 2", first.n)
	}
	if first.events[0].screenX != 0 || first.events[1].screenX != 200 {
		t.Errorf("first frame x = %v, %v; want 0, 200", first.events[0].screenX, first.events[1].screenX)
	}
	last := s.injectQueue[4]
	if last.events[0].pressed || last.events[1].pressed {
		t.Error("last frame should release both fingers")
	}
	if last.events[0].screenX != 75 || last.events[1].screenX != 125 {
		t.Errorf("last frame x = %v, %v; want 75, 125", last.events[0].screenX, last.events[1].screenX)
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	s := NewScene()
	if s.processInjectedInput() {
		t.Error("empty queue should report no injected frame")
	}
}
