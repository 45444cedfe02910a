package lightbox

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constants ---

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // pixels
)

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	hitNode  *Node
	dragging bool
	pinched  bool        // part of a pinch; never starts a drag
	button   MouseButton // button captured at press time
}

// --- Pinch state ---

type pinchState struct {
	active      bool
	pointer0    int
	pointer1    int
	node        *Node // hit node of pointer0 when the pinch began
	initialDist float64
	initialAng  float64
	prevDist    float64
	prevAngle   float64
	lastCtx     PinchContext
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type dragHandler struct {
	id uint32
	fn func(DragContext)
}

type pinchHandler struct {
	id uint32
	fn func(PinchContext)
}

type wheelHandler struct {
	id uint32
	fn func(WheelContext)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	pointerUp   []pointerHandler
	click       []clickHandler
	dragStart   []dragHandler
	drag        []dragHandler
	dragEnd     []dragHandler
	pinch       []pinchHandler
	wheel       []wheelHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removeHandler(h.reg.pointerDown, h.id, func(p pointerHandler) uint32 { return p.id })
	case EventPointerUp:
		h.reg.pointerUp = removeHandler(h.reg.pointerUp, h.id, func(p pointerHandler) uint32 { return p.id })
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, h.id, func(c clickHandler) uint32 { return c.id })
	case EventDragStart:
		h.reg.dragStart = removeHandler(h.reg.dragStart, h.id, func(d dragHandler) uint32 { return d.id })
	case EventDrag:
		h.reg.drag = removeHandler(h.reg.drag, h.id, func(d dragHandler) uint32 { return d.id })
	case EventDragEnd:
		h.reg.dragEnd = removeHandler(h.reg.dragEnd, h.id, func(d dragHandler) uint32 { return d.id })
	case EventPinch:
		h.reg.pinch = removeHandler(h.reg.pinch, h.id, func(p pinchHandler) uint32 { return p.id })
	case EventWheel:
		h.reg.wheel = removeHandler(h.reg.wheel, h.id, func(w wheelHandler) uint32 { return w.id })
	}
}

// removeHandler deletes the entry with the given id, zeroing the vacated tail
// slot so the backing array does not retain the closure.
func removeHandler[T any](s []T, id uint32, idOf func(T) uint32) []T {
	for i := range s {
		if idOf(s[i]) == id {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

func (r *handlerRegistry) next() uint32 {
	r.nextID++
	return r.nextID
}

// --- Scene-level event registration ---

// OnPointerDown registers a scene-level callback for pointer down events.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.pointerDown = append(s.handlers.pointerDown, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerDown}
}

// OnPointerUp registers a scene-level callback for pointer up events.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.pointerUp = append(s.handlers.pointerUp, pointerHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPointerUp}
}

// OnClick registers a scene-level callback for click events.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.click = append(s.handlers.click, clickHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventClick}
}

// OnDragStart registers a scene-level callback for drag start events.
func (s *Scene) OnDragStart(fn func(DragContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.dragStart = append(s.handlers.dragStart, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDragStart}
}

// OnDrag registers a scene-level callback for drag events.
func (s *Scene) OnDrag(fn func(DragContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.drag = append(s.handlers.drag, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDrag}
}

// OnDragEnd registers a scene-level callback for drag end events.
func (s *Scene) OnDragEnd(fn func(DragContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.dragEnd = append(s.handlers.dragEnd, dragHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventDragEnd}
}

// OnPinch registers a scene-level callback for pinch events.
func (s *Scene) OnPinch(fn func(PinchContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.pinch = append(s.handlers.pinch, pinchHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventPinch}
}

// OnWheel registers a scene-level callback for mouse wheel events.
func (s *Scene) OnWheel(fn func(WheelContext)) CallbackHandle {
	id := s.handlers.next()
	s.handlers.wheel = append(s.handlers.wheel, wheelHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventWheel}
}

// CapturePointer routes all events for pointerID to the given node.
func (s *Scene) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (s *Scene) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = nil
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise derives AABB from node dimensions.
// Containers with no HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	w, h := nodeDimensions(n)
	if w == 0 && h == 0 {
		return false
	}
	return lx >= 0 && lx <= w && ly >= 0 && ly <= h
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending interactable nodes to buf. Skips Visible=false subtrees.
// Interactable=false on a node excludes it and its subtree.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}

	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}

	if len(n.children) == 0 {
		return buf
	}

	for _, child := range sortedChildren(n) {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at (worldX, worldY).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])

	// Iterate backward (reverse painter order): topmost visual node first.
	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		lx, ly := n.WorldToLocal(worldX, worldY)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processInput is called from Scene.Update() to handle all mouse and touch input.
// World transforms are already refreshed at the start of Scene.Update().
// An injected frame replaces real input for that frame.
func (s *Scene) processInput() {
	if !s.processInjectedInput() {
		s.processMousePointer()
		s.processTouchPointers()
		s.processWheel()
	}
	s.detectPinch()
}

// processMousePointer handles mouse input (pointer 0).
func (s *Scene) processMousePointer() {
	mx, my := ebiten.CursorPosition()

	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	if left || right || middle {
		pressed = true
		if left {
			button = MouseButtonLeft
		} else if right {
			button = MouseButtonRight
		} else {
			button = MouseButtonMiddle
		}
	}

	s.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processTouchPointers handles touch input (pointers 1-9).
func (s *Scene) processTouchPointers() {
	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		s.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !activeSlots[i] {
			ps := &s.pointers[i]
			if ps.down {
				s.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (s *Scene) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processWheel forwards mouse wheel movement to scene-level handlers.
func (s *Scene) processWheel() {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	ctx := WheelContext{GlobalX: float64(mx), GlobalY: float64(my), DeltaX: dx, DeltaY: dy}
	for _, h := range s.handlers.wheel {
		h.fn(ctx)
	}
}

// processPointer runs the pointer state machine for a single pointer.
func (s *Scene) processPointer(pointerID int, wx, wy float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]

	// Determine target node: captured node or hit test.
	var target *Node
	if s.captured[pointerID] != nil {
		target = s.captured[pointerID]
	} else {
		target = s.hitTest(wx, wy)
	}

	switch {
	case pressed && !ps.down:
		// Just pressed: capture button for the duration of this interaction.
		ps.down = true
		ps.button = button
		ps.startX = wx
		ps.startY = wy
		ps.lastX = wx
		ps.lastY = wy
		ps.hitNode = target
		ps.dragging = false
		ps.pinched = false

		s.firePointerDown(target, pointerID, wx, wy, ps.button)
	case !pressed && ps.down:
		if ps.dragging {
			s.fireDrag(EventDragEnd, ps.hitNode, pointerID, wx, wy, ps, wx-ps.lastX, wy-ps.lastY)
		} else if !ps.pinched && ps.hitNode != nil && ps.hitNode == target {
			s.fireClick(target, pointerID, wx, wy, ps.button)
		}

		s.firePointerUp(target, pointerID, wx, wy, ps.button)

		// Auto-release capture.
		s.captured[pointerID] = nil
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false
		ps.pinched = false
	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			if !ps.dragging && !ps.pinched {
				dx := wx - ps.startX
				dy := wy - ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(EventDragStart, ps.hitNode, pointerID, wx, wy, ps, wx-ps.startX, wy-ps.startY)
				}
			}
			if ps.dragging {
				s.fireDrag(EventDrag, ps.hitNode, pointerID, wx, wy, ps, wx-ps.lastX, wy-ps.lastY)
			}
		}
		ps.lastX = wx
		ps.lastY = wy
	}
}

// --- Pinch detection ---

// detectPinch tracks the first two active touch pointers. A pointer that is
// already dragging keeps its drag; the others stop being drag candidates for
// the rest of their press.
func (s *Scene) detectPinch() {
	var p0, p1 int
	count := 0
	for i := 1; i < maxPointers; i++ {
		if s.pointers[i].down {
			if count == 0 {
				p0 = i
			} else if count == 1 {
				p1 = i
			}
			count++
		}
	}

	if s.pinch.active && (count < 2 || p0 != s.pinch.pointer0 || p1 != s.pinch.pointer1) {
		end := s.pinch.lastCtx
		end.Phase = PinchEnded
		end.ScaleDelta = 0
		end.RotDelta = 0
		s.pinch.active = false
		s.firePinch(end)
		s.pinch.node = nil
	}
	if count < 2 {
		return
	}

	ps0 := &s.pointers[p0]
	ps1 := &s.pointers[p1]
	ps0.pinched = true
	ps1.pinched = true

	cx := (ps0.lastX + ps1.lastX) / 2
	cy := (ps0.lastY + ps1.lastY) / 2
	dx := ps1.lastX - ps0.lastX
	dy := ps1.lastY - ps0.lastY
	dist := math.Sqrt(dx*dx + dy*dy)
	angle := math.Atan2(dy, dx)

	if !s.pinch.active {
		s.pinch.active = true
		s.pinch.pointer0 = p0
		s.pinch.pointer1 = p1
		s.pinch.node = ps0.hitNode
		s.pinch.initialDist = dist
		s.pinch.initialAng = angle
		s.pinch.prevDist = dist
		s.pinch.prevAngle = angle
		ctx := PinchContext{Phase: PinchBegan, CenterX: cx, CenterY: cy, Scale: 1}
		s.pinch.lastCtx = ctx
		s.firePinch(ctx)
		return
	}

	if dist == s.pinch.prevDist && angle == s.pinch.prevAngle &&
		cx == s.pinch.lastCtx.CenterX && cy == s.pinch.lastCtx.CenterY {
		return
	}

	scale := 1.0
	if s.pinch.initialDist > 0 {
		scale = dist / s.pinch.initialDist
	}
	scaleDelta := 0.0
	if s.pinch.prevDist > 0 {
		scaleDelta = dist/s.pinch.prevDist - 1.0
	}
	ctx := PinchContext{
		Phase:      PinchChanged,
		CenterX:    cx,
		CenterY:    cy,
		Scale:      scale,
		ScaleDelta: scaleDelta,
		Rotation:   angle - s.pinch.initialAng,
		RotDelta:   angle - s.pinch.prevAngle,
	}
	s.pinch.prevDist = dist
	s.pinch.prevAngle = angle
	s.pinch.lastCtx = ctx
	s.firePinch(ctx)
}

// --- Event dispatch ---

func (s *Scene) firePointerDown(node *Node, pointerID int, wx, wy float64, button MouseButton) {
	ctx := PointerContext{GlobalX: wx, GlobalY: wy, Button: button, PointerID: pointerID}
	if node != nil {
		ctx.Node = node
		ctx.UserData = node.UserData
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
	}
	// Scene-level handlers first.
	for _, h := range s.handlers.pointerDown {
		h.fn(ctx)
	}
	// Per-node callback.
	if node != nil && node.OnPointerDown != nil {
		node.OnPointerDown(ctx)
	}
}

func (s *Scene) firePointerUp(node *Node, pointerID int, wx, wy float64, button MouseButton) {
	ctx := PointerContext{GlobalX: wx, GlobalY: wy, Button: button, PointerID: pointerID}
	if node != nil {
		ctx.Node = node
		ctx.UserData = node.UserData
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
	}
	for _, h := range s.handlers.pointerUp {
		h.fn(ctx)
	}
	if node != nil && node.OnPointerUp != nil {
		node.OnPointerUp(ctx)
	}
}

func (s *Scene) fireClick(node *Node, pointerID int, wx, wy float64, button MouseButton) {
	ctx := ClickContext{GlobalX: wx, GlobalY: wy, Button: button, PointerID: pointerID}
	if node != nil {
		ctx.Node = node
		ctx.UserData = node.UserData
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
	}
	for _, h := range s.handlers.click {
		h.fn(ctx)
	}
	if node != nil && node.OnClick != nil {
		node.OnClick(ctx)
	}
}

func (s *Scene) fireDrag(kind EventType, node *Node, pointerID int, wx, wy float64, ps *pointerState, deltaX, deltaY float64) {
	ctx := DragContext{
		GlobalX: wx, GlobalY: wy,
		StartX: ps.startX, StartY: ps.startY,
		DeltaX: deltaX, DeltaY: deltaY,
		Button: ps.button, PointerID: pointerID,
	}
	if node != nil {
		ctx.Node = node
		ctx.UserData = node.UserData
		ctx.LocalX, ctx.LocalY = node.WorldToLocal(wx, wy)
	}

	var handlers []dragHandler
	var nodeFn func(DragContext)
	switch kind {
	case EventDragStart:
		handlers = s.handlers.dragStart
		if node != nil {
			nodeFn = node.OnDragStart
		}
	case EventDrag:
		handlers = s.handlers.drag
		if node != nil {
			nodeFn = node.OnDrag
		}
	case EventDragEnd:
		handlers = s.handlers.dragEnd
		if node != nil {
			nodeFn = node.OnDragEnd
		}
	}
	for _, h := range handlers {
		h.fn(ctx)
	}
	if nodeFn != nil {
		nodeFn(ctx)
	}
}

func (s *Scene) firePinch(ctx PinchContext) {
	for _, h := range s.handlers.pinch {
		h.fn(ctx)
	}
	// Per-node OnPinch goes to the hit node of the first pinch pointer.
	if n := s.pinch.node; n != nil && n.OnPinch != nil {
		n.OnPinch(ctx)
	}
}
