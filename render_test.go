package lightbox

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func traverseScene(s *Scene) []RenderCommand {
	s.commands = s.commands[:0]
	s.traverse(s.root, identityTransform, 1, false)
	return s.commands
}

func TestTraverseSpriteCommand(t *testing.T) {
	s := NewScene()
	bg := NewSprite("bg", nil)
	bg.SetScale(100, 50)
	bg.SetPosition(5, 6)
	bg.Color = Color{1, 0, 0, 1}
	bg.SetAlpha(0.5)
	s.Root().AddChild(bg)

	cmds := traverseScene(s)
	if len(cmds) != 1 {
		t.Fatalf("commands = %d, want 1", len(cmds))
	}
	c := cmds[0]
	if c.Type != CommandSprite || c.Image != WhitePixel {
		t.Error("nil sprite image should draw WhitePixel")
	}
	assertMatrix(t, "transform", c.Transform, [6]float64{100, 0, 0, 50, 5, 6})
	assertNear(t, "alpha", c.Color.A, 0.5)
}

func TestTraverseImageCover(t *testing.T) {
	s := NewScene()
	n := NewImage("thumb", 100, 100, FitCover)
	n.SetCustomImage(ebiten.NewImage(400, 200))
	n.SetPosition(10, 20)
	s.Root().AddChild(n)

	cmds := traverseScene(s)
	if len(cmds) != 1 || cmds[0].Type != CommandImage {
		t.Fatalf("commands = %+v", cmds)
	}
	// Cover crops the middle 200x200 of the 400x200 source.
	assertRect(t, "src", cmds[0].Src, Rect{100, 0, 200, 200})
	assertMatrix(t, "transform", cmds[0].Transform, [6]float64{0.5, 0, 0, 0.5, 10, 20})
}

func TestTraverseImageContain(t *testing.T) {
	s := NewScene()
	n := NewImage("full", 100, 100, FitContain)
	n.SetCustomImage(ebiten.NewImage(400, 200))
	s.Root().AddChild(n)

	cmds := traverseScene(s)
	if len(cmds) != 1 {
		t.Fatalf("commands = %d", len(cmds))
	}
	assertRect(t, "src", cmds[0].Src, Rect{0, 0, 400, 200})
	assertMatrix(t, "transform", cmds[0].Transform, [6]float64{0.25, 0, 0, 0.25, 0, 25})
}

func TestTraverseImageNoneCropsAtNaturalScale(t *testing.T) {
	s := NewScene()
	n := NewImage("cell", 120, 120, FitNone)
	n.SetCustomImage(ebiten.NewImage(400, 200))
	s.Root().AddChild(n)

	cmds := traverseScene(s)
	if len(cmds) != 1 {
		t.Fatalf("commands = %d", len(cmds))
	}
	assertRect(t, "src", cmds[0].Src, Rect{140, 40, 120, 120})
	assertMatrix(t, "transform", cmds[0].Transform, [6]float64{1, 0, 0, 1, 0, 0})
}

func TestTraverseSkipsImageWithoutPixels(t *testing.T) {
	s := NewScene()
	s.Root().AddChild(NewImage("empty", 100, 100, FitCover))
	if n := len(traverseScene(s)); n != 0 {
		t.Errorf("commands = %d, want 0", n)
	}
}

func TestTraverseSkipsInvisibleSubtree(t *testing.T) {
	s := NewScene()
	group := NewContainer("group")
	group.AddChild(NewSprite("a", nil))
	s.Root().AddChild(group)
	group.Visible = false
	if n := len(traverseScene(s)); n != 0 {
		t.Errorf("commands = %d, want 0", n)
	}

	group.Visible = true
	group.SetAlpha(0)
	if n := len(traverseScene(s)); n != 0 {
		t.Errorf("transparent: commands = %d, want 0", n)
	}
}

func TestTraverseZIndexOrder(t *testing.T) {
	s := NewScene()
	top := NewSprite("top", nil)
	bottom := NewSprite("bottom", nil)
	top.Color = Color{1, 0, 0, 1}
	bottom.Color = Color{0, 0, 1, 1}
	s.Root().AddChild(top)
	s.Root().AddChild(bottom)
	top.SetZIndex(10)

	cmds := traverseScene(s)
	if len(cmds) != 2 {
		t.Fatalf("commands = %d", len(cmds))
	}
	if cmds[0].Color.B != 1 || cmds[1].Color.R != 1 {
		t.Error("higher ZIndex should draw last")
	}
}

func TestTraverseNonRenderableKeepsChildren(t *testing.T) {
	s := NewScene()
	parent := NewSprite("parent", nil)
	parent.Renderable = false
	parent.AddChild(NewSprite("child", nil))
	s.Root().AddChild(parent)
	if n := len(traverseScene(s)); n != 1 {
		t.Errorf("commands = %d, want 1", n)
	}
}
