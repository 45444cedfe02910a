package lightbox

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification) and the backing color
// of the fullscreen overlay.
var ColorWhite = Color{1, 1, 1, 1}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and gesture translations.
type Vec2 struct {
	X, Y float64
}

// Size is the natural pixel size of a decoded image, or the size of a screen.
type Size struct {
	Width, Height float64
}

// Aspect returns Width / Height.
func (s Size) Aspect() float64 {
	return s.Width / s.Height
}

// Positive reports whether both dimensions are greater than zero.
func (s Size) Positive() bool {
	return s.Width > 0 && s.Height > 0
}

// WhitePixel is a 1x1 white image used by default for solid color sprites.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle in screen space. The origin is the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{r.Width, r.Height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Intersect returns the overlap of r and other. The result has zero size when
// they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders a custom image (or WhitePixel) scaled by ScaleX/ScaleY
	NodeTypeImage                     // renders a custom image fitted into Width x Height by Fit
)

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown EventType = iota // fires when a pointer button is pressed
	EventPointerUp                    // fires when a pointer button is released
	EventClick                        // fires on press then release over the same node
	EventDragStart                    // fires when movement exceeds the drag dead zone
	EventDrag                         // fires each frame while dragging
	EventDragEnd                      // fires when the pointer is released after dragging
	EventPinch                        // fires when a two-finger pinch begins, changes or ends
	EventWheel                        // fires when the mouse wheel scrolls
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
