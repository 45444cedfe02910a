package lightbox

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandSprite CommandType = iota // DrawImage of a whole image, scaled by the node
	CommandImage                     // DrawImage of a fitted sub-image into a box
)

// RenderCommand is a single draw instruction emitted during scene traversal.
// Commands are emitted in painter order, so submission needs no sort.
type RenderCommand struct {
	Type      CommandType
	Transform [6]float64
	Color     Color
	Image     *ebiten.Image
	// Src is the source sub-rectangle for CommandImage.
	Src Rect
}

// traverse walks the node tree depth-first in ZIndex order, emitting render
// commands for visible, renderable nodes. World transforms were refreshed at
// the start of Update; traverse only refreshes nodes dirtied since then.
func (s *Scene) traverse(n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	if n.Renderable && n.worldAlpha > 0 {
		switch n.Type {
		case NodeTypeSprite:
			img := n.customImage
			if img == nil {
				img = WhitePixel
			}
			s.commands = append(s.commands, RenderCommand{
				Type:      CommandSprite,
				Transform: n.worldTransform,
				Color:     Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * n.worldAlpha},
				Image:     img,
			})
		case NodeTypeImage:
			s.emitImageCommand(n)
		}
	}

	for _, child := range sortedChildren(n) {
		s.traverse(child, n.worldTransform, n.worldAlpha, recompute)
	}
}

// emitImageCommand fits the node's image into its Width x Height box.
func (s *Scene) emitImageCommand(n *Node) {
	img := n.customImage
	if img == nil || n.Width <= 0 || n.Height <= 0 {
		return
	}
	b := img.Bounds()
	natural := Size{float64(b.Dx()), float64(b.Dy())}
	if !natural.Positive() {
		return
	}
	dst, src := FitDrawRect(Rect{0, 0, n.Width, n.Height}, natural, n.Fit)
	if dst.Width <= 0 || dst.Height <= 0 || src.Width <= 0 || src.Height <= 0 {
		return
	}
	local := [6]float64{dst.Width / src.Width, 0, 0, dst.Height / src.Height, dst.X, dst.Y}
	s.commands = append(s.commands, RenderCommand{
		Type:      CommandImage,
		Transform: multiplyAffine(n.worldTransform, local),
		Color:     Color{n.Color.R, n.Color.G, n.Color.B, n.Color.A * n.worldAlpha},
		Image:     img,
		Src:       Rect{src.X + float64(b.Min.X), src.Y + float64(b.Min.Y), src.Width, src.Height},
	})
}

// sortedChildren returns n's children in ZIndex order, rebuilding the cached
// order when it is stale.
func sortedChildren(n *Node) []*Node {
	if len(n.children) == 0 {
		return nil
	}
	if !n.childrenSorted || len(n.sortedChildren) != len(n.children) {
		rebuildSortedChildren(n)
	}
	return n.sortedChildren
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}

// submit draws the command list onto target.
func (s *Scene) submit(target *ebiten.Image) {
	var op ebiten.DrawImageOptions
	for i := range s.commands {
		cmd := &s.commands[i]
		op.GeoM.Reset()
		op.ColorScale.Reset()
		m := cmd.Transform
		op.GeoM.SetElement(0, 0, m[0])
		op.GeoM.SetElement(0, 1, m[2])
		op.GeoM.SetElement(0, 2, m[4])
		op.GeoM.SetElement(1, 0, m[1])
		op.GeoM.SetElement(1, 1, m[3])
		op.GeoM.SetElement(1, 2, m[5])
		c := cmd.Color
		op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
		op.Filter = ebiten.FilterLinear

		img := cmd.Image
		if cmd.Type == CommandImage {
			r := image.Rect(int(cmd.Src.X), int(cmd.Src.Y), int(cmd.Src.X+cmd.Src.Width), int(cmd.Src.Y+cmd.Src.Height))
			img = img.SubImage(r).(*ebiten.Image)
		}
		target.DrawImage(img, &op)
	}
}
