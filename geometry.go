package lightbox

import "fmt"

// ContentFit controls how an image of a given natural size is mapped into a
// container rectangle. The zero value is FitContain.
type ContentFit uint8

const (
	FitContain   ContentFit = iota // scale to fit entirely inside, preserving aspect
	FitCover                       // scale to fill, preserving aspect; may overflow one axis
	FitFill                        // stretch to the container size exactly
	FitNone                        // natural size, cropped to the container
	FitScaleDown                   // like FitContain, but never drawn above natural size
)

var fitNames = [...]string{
	FitContain:   "contain",
	FitCover:     "cover",
	FitFill:      "fill",
	FitNone:      "none",
	FitScaleDown: "scale-down",
}

// String returns the CSS-style name of the fit ("contain", "scale-down", ...).
func (f ContentFit) String() string {
	if int(f) < len(fitNames) {
		return fitNames[f]
	}
	return fmt.Sprintf("ContentFit(%d)", uint8(f))
}

// ParseContentFit parses a fit name as produced by String.
func ParseContentFit(name string) (ContentFit, error) {
	for i, n := range fitNames {
		if n == name {
			return ContentFit(i), nil
		}
	}
	return FitContain, fmt.Errorf("parse content fit: unknown mode %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (f ContentFit) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ContentFit) UnmarshalText(text []byte) error {
	v, err := ParseContentFit(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func badFit(f ContentFit) string {
	return fmt.Sprintf("lightbox: unknown content fit %d", uint8(f))
}

// ResolveVisibleRect returns the rectangle an image of the given natural size
// occupies when laid into container under fit. The position is copied from
// container; only the size is computed. natural must be positive.
func ResolveVisibleRect(container Rect, natural Size, fit ContentFit) Rect {
	out := Rect{X: container.X, Y: container.Y}
	switch fit {
	case FitFill:
		out.Width, out.Height = container.Width, container.Height
		return out
	case FitNone:
		out.Width = min(natural.Width, container.Width)
		out.Height = min(natural.Height, container.Height)
		return out
	case FitCover:
		ratio := max(container.Width/natural.Width, container.Height/natural.Height)
		out.Width, out.Height = natural.Width*ratio, natural.Height*ratio
		return out
	case FitContain, FitScaleDown:
		ratio := min(container.Width/natural.Width, container.Height/natural.Height)
		out.Width, out.Height = natural.Width*ratio, natural.Height*ratio
		return out
	}
	panic(badFit(fit))
}

// FullscreenRect computes the resting rectangle of the fullscreen viewer: the
// natural aspect fitted width-first to the screen (shrunk to the screen height
// on overflow), clamped to what fit would show inside a screen-sized box, and
// centered on screen.
func FullscreenRect(screen Size, natural Size, fit ContentFit) Rect {
	aspect := natural.Aspect()
	w := screen.Width
	h := screen.Width / aspect
	if h > screen.Height {
		h = screen.Height
		w = screen.Height * aspect
	}

	visible := ResolveVisibleRect(Rect{Width: screen.Width, Height: screen.Height}, natural, fit)
	w = min(w, visible.Width)
	h = min(h, visible.Height)

	return Rect{
		X:      (screen.Width - w) / 2,
		Y:      (screen.Height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// FitDrawRect lays an image of the given natural size into box under fit,
// centered, and clips it to box. dst is the on-screen area that receives
// pixels; src is the matching sub-rectangle of the image in natural pixels.
// Both are zero-sized when nothing is visible.
func FitDrawRect(box Rect, natural Size, fit ContentFit) (dst, src Rect) {
	if !natural.Positive() || box.Width <= 0 || box.Height <= 0 {
		return Rect{}, Rect{}
	}
	size := drawnSize(box, natural, fit)
	drawn := Rect{
		X:      box.X + (box.Width-size.Width)/2,
		Y:      box.Y + (box.Height-size.Height)/2,
		Width:  size.Width,
		Height: size.Height,
	}
	dst = drawn.Intersect(box)
	if dst.Width <= 0 || dst.Height <= 0 {
		return Rect{}, Rect{}
	}
	sx := natural.Width / drawn.Width
	sy := natural.Height / drawn.Height
	src = Rect{
		X:      (dst.X - drawn.X) * sx,
		Y:      (dst.Y - drawn.Y) * sy,
		Width:  dst.Width * sx,
		Height: dst.Height * sy,
	}
	return dst, src
}

// drawnSize is the on-screen size of the whole image before clipping to box.
func drawnSize(box Rect, natural Size, fit ContentFit) Size {
	switch fit {
	case FitNone:
		return natural
	case FitScaleDown:
		r := ResolveVisibleRect(box, natural, FitContain)
		if r.Width > natural.Width {
			return natural
		}
		return Size{Width: r.Width, Height: r.Height}
	}
	r := ResolveVisibleRect(box, natural, fit)
	return Size{Width: r.Width, Height: r.Height}
}
