package lightbox

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Label is a sprite that shows a line or two of debug-font text. The text
// image is redrawn only when the text changes. The glyphs are white; tint
// them through Node().Color.
type Label struct {
	node       *Node
	img        *ebiten.Image
	text       string
	background color.Color
}

// NewLabel creates a label whose text image is w x h pixels.
func NewLabel(name string, w, h int) *Label {
	img := ebiten.NewImage(w, h)
	return &Label{node: NewSprite(name, img), img: img}
}

// Node returns the label's sprite node.
func (l *Label) Node() *Node {
	return l.node
}

// Text returns the current text.
func (l *Label) Text() string {
	return l.text
}

// SetBackground fills the label image with c behind the text.
func (l *Label) SetBackground(c color.Color) {
	l.background = c
	l.redraw()
}

// SetText replaces the text. No-op if unchanged.
func (l *Label) SetText(text string) {
	if text == l.text {
		return
	}
	l.text = text
	l.redraw()
}

func (l *Label) redraw() {
	l.img.Clear()
	if l.background != nil {
		l.img.Fill(l.background)
	}
	ebitenutil.DebugPrint(l.img, l.text)
}

// NewFPSWidget creates a new Node that displays the current FPS and TPS.
// The text is refreshed every ~0.5 seconds.
func NewFPSWidget() *Node {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	l := NewLabel("fps_widget", 100, 32)
	l.SetBackground(color.RGBA{0, 0, 0, 128})
	l.node.ZIndex = 1 << 20 // draw on top

	var lastUpdate float64
	l.node.OnUpdate = func(dt float64) {
		lastUpdate += dt
		if lastUpdate < 0.5 {
			return
		}
		lastUpdate = 0
		l.SetText(fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	return l.node
}
