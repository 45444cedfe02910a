package lightbox

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Constructor defaults ---

func TestNewContainerDefaults(t *testing.T) {
	n := NewContainer("test")
	assertNodeDefaults(t, n, "test", NodeTypeContainer)
}

func TestNewSpriteDefaults(t *testing.T) {
	img := ebiten.NewImage(8, 4)
	n := NewSprite("spr", img)
	assertNodeDefaults(t, n, "spr", NodeTypeSprite)
	if n.CustomImage() != img {
		t.Error("CustomImage not set")
	}
	if w, h := nodeDimensions(n); w != 8 || h != 4 {
		t.Errorf("dimensions = %v x %v, want 8 x 4", w, h)
	}
}

func TestNewImageDefaults(t *testing.T) {
	n := NewImage("img", 129, 120, FitCover)
	assertNodeDefaults(t, n, "img", NodeTypeImage)
	if n.Fit != FitCover {
		t.Errorf("Fit = %v, want cover", n.Fit)
	}
	if w, h := nodeDimensions(n); w != 129 || h != 120 {
		t.Errorf("dimensions = %v x %v, want 129 x 120", w, h)
	}
}

func assertNodeDefaults(t *testing.T, n *Node, name string, typ NodeType) {
	t.Helper()
	if n.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if n.Name != name {
		t.Errorf("Name = %q, want %q", n.Name, name)
	}
	if n.Type != typ {
		t.Errorf("Type = %d, want %d", n.Type, typ)
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Errorf("Alpha = %v, want 1", n.Alpha)
	}
	if !n.Visible || !n.Renderable {
		t.Error("Visible and Renderable should default to true")
	}
	if n.Interactable {
		t.Error("Interactable should default to false")
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		n := NewContainer("")
		if seen[n.ID] {
			t.Fatalf("duplicate ID %d", n.ID)
		}
		seen[n.ID] = true
	}
}

// --- Tree manipulation ---

func TestAddChildReparent(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	c := NewContainer("c")
	a.AddChild(c)
	b.AddChild(c)
	if c.Parent != b || a.NumChildren() != 0 || b.NumChildren() != 1 {
		t.Error("reparent should move the child")
	}
}

func TestAddChildCyclePanic(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddChildNilPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for nil child")
		}
	}()
	NewContainer("a").AddChild(nil)
}

func TestRemoveChildWrongParentPanic(t *testing.T) {
	a := NewContainer("a")
	b := NewContainer("b")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a.RemoveChild(b)
}

func TestRemoveChildren(t *testing.T) {
	p := NewContainer("p")
	kids := []*Node{NewContainer("1"), NewContainer("2"), NewContainer("3")}
	for _, k := range kids {
		p.AddChild(k)
	}
	_ = sortedChildren(p)
	p.RemoveChildren()
	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d", p.NumChildren())
	}
	if len(sortedChildren(p)) != 0 {
		t.Error("sorted order kept removed children")
	}
	for _, k := range kids {
		if k.Parent != nil {
			t.Error("child kept its parent")
		}
	}
}

func TestSortedChildrenByZIndex(t *testing.T) {
	p := NewContainer("p")
	a, b, c := NewContainer("a"), NewContainer("b"), NewContainer("c")
	p.AddChild(a)
	p.AddChild(b)
	p.AddChild(c)
	a.SetZIndex(5)
	c.SetZIndex(-1)
	got := sortedChildren(p)
	if got[0] != c || got[1] != b || got[2] != a {
		t.Errorf("order = %s %s %s, want c b a", got[0].Name, got[1].Name, got[2].Name)
	}
	if p.Children()[0] != a {
		t.Error("sorting must not reorder Children()")
	}
}

func TestDispose(t *testing.T) {
	root := NewContainer("root")
	child := NewContainer("child")
	grand := NewContainer("grand")
	root.AddChild(child)
	child.AddChild(grand)
	ProvideRegistry(child, NewRegistry())

	child.Dispose()
	if !child.IsDisposed() || !grand.IsDisposed() {
		t.Error("subtree should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed node still attached")
	}
	if child.registry != nil {
		t.Error("disposed node kept its registry")
	}
	child.Dispose() // idempotent
}

// --- Measure ---

func TestMeasure(t *testing.T) {
	root := NewContainer("root")
	root.SetPosition(10, 20)
	img := NewImage("img", 129, 120, FitCover)
	img.SetPosition(130, 242)
	root.AddChild(img)
	box := NewContainer("box")
	box.HitShape = HitRect{X: 5, Y: 5, Width: 50, Height: 40}
	box.SetScale(2, 2)
	root.AddChild(box)
	updateWorldTransform(root, identityTransform, 1, false)

	assertRect(t, "image", img.Measure(), Rect{140, 262, 129, 120})
	assertRect(t, "hit rect", box.Measure(), Rect{20, 30, 100, 80})
}
