package lightbox

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape is used for custom hit testing regions in local coordinates.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
}

// ClickContext carries click event data.
type ClickContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
}

// DragContext carries drag event data. StartX/StartY is where the pointer
// went down; DeltaX/DeltaY is the movement since the previous event.
type DragContext struct {
	Node      *Node
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	StartX    float64
	StartY    float64
	DeltaX    float64
	DeltaY    float64
	Button    MouseButton
	PointerID int
}

// PinchPhase is the lifecycle stage of a pinch event.
type PinchPhase uint8

const (
	PinchBegan   PinchPhase = iota // second finger down; Scale is 1
	PinchChanged                   // fingers moved
	PinchEnded                     // one of the fingers lifted
)

// PinchContext carries pinch gesture data. Scale is the current finger
// distance over the distance when the pinch began. CenterX/CenterY is the
// midpoint between the fingers in screen space.
type PinchContext struct {
	Phase              PinchPhase
	CenterX, CenterY   float64
	Scale, ScaleDelta  float64
	Rotation, RotDelta float64
}

// WheelContext carries mouse wheel data.
type WheelContext struct {
	GlobalX, GlobalY float64
	DeltaX, DeltaY   float64
}

// nodeIDCounter is a plain counter (no atomic; the scene is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y   float64
	ScaleX float64
	ScaleY float64

	// Computed during the update pass
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Renderable   bool
	Interactable bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any

	// Sprite / image fields
	Color       Color
	customImage *ebiten.Image

	// Image fields (NodeTypeImage): the box the image is fitted into, in
	// local units, and the fit policy.
	Width, Height float64
	Fit           ContentFit

	// Hit testing
	HitShape HitShape

	// Per-node callbacks (nil by default; zero cost when unused)
	OnPointerDown func(PointerContext)
	OnPointerUp   func(PointerContext)
	OnClick       func(ClickContext)
	OnDragStart   func(DragContext)
	OnDrag        func(DragContext)
	OnDragEnd     func(DragContext)
	OnPinch       func(PinchContext)

	// OnUpdate runs once per frame during Scene.Update with the frame's
	// delta in seconds.
	OnUpdate func(dt float64)

	// Scoped state provided to this subtree (see ProvideRegistry).
	registry *Registry

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = Color{1, 1, 1, 1}
	n.Visible = true
	n.Renderable = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node. With a nil image it draws WhitePixel, so
// ScaleX/ScaleY become the rectangle size and Color its fill.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, customImage: img}
	nodeDefaults(n)
	return n
}

// NewImage creates an image node that fits its image into a width x height
// box under fit. The image may be set later with SetCustomImage.
func NewImage(name string, width, height float64, fit ContentFit) *Node {
	n := &Node{Name: name, Type: NodeTypeImage, Width: width, Height: height, Fit: fit}
	nodeDefaults(n)
	return n
}

// SetCustomImage sets the *ebiten.Image a sprite or image node displays.
func (n *Node) SetCustomImage(img *ebiten.Image) {
	n.customImage = img
}

// CustomImage returns the node's image, or nil if not set.
func (n *Node) CustomImage() *ebiten.Image {
	return n.customImage
}

// SetSize sets the image box of a NodeTypeImage node.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("lightbox: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("lightbox: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("lightbox: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.customImage = nil
	n.UserData = nil
	n.registry = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnClick = nil
	n.OnDragStart = nil
	n.OnDrag = nil
	n.OnDragEnd = nil
	n.OnPinch = nil
	n.OnUpdate = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// nodeDimensions returns the local-space size used for hit testing and
// measuring. Containers have no size of their own.
func nodeDimensions(n *Node) (w, h float64) {
	switch n.Type {
	case NodeTypeSprite:
		if n.customImage != nil {
			b := n.customImage.Bounds()
			return float64(b.Dx()), float64(b.Dy())
		}
		return 1, 1
	case NodeTypeImage:
		return n.Width, n.Height
	default:
		return 0, 0
	}
}

// Measure returns the node's bounding rectangle in screen space, using the
// world transform from the most recent update. Nodes without a size of their
// own measure their HitShape when it is a HitRect.
func (n *Node) Measure() Rect {
	w, h := nodeDimensions(n)
	ox, oy := 0.0, 0.0
	if hr, ok := n.HitShape.(HitRect); ok && w == 0 && h == 0 {
		ox, oy, w, h = hr.X, hr.Y, hr.Width, hr.Height
	}
	x0, y0 := n.LocalToWorld(ox, oy)
	x1, y1 := n.LocalToWorld(ox+w, oy+h)
	return Rect{
		X:      min(x0, x1),
		Y:      min(y0, y1),
		Width:  abs(x1 - x0),
		Height: abs(y1 - y0),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
