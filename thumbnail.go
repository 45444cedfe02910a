package lightbox

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ThumbnailConfig describes one grid cell.
type ThumbnailConfig struct {
	AssetID string
	Source  string
	Fit     ContentFit
	Width   float64
	Height  float64
}

// Thumbnail is a pressable grid image. A press opens its image in the
// registry found above it in the tree; while that transition runs the
// thumbnail hides itself behind the overlay.
type Thumbnail struct {
	node *Node
	cfg  ThumbnailConfig

	natural    Size
	hasNatural bool
	err        error

	// OnError receives natural-size resolution failures.
	OnError func(error)

	opacityIn  [2]float64
	opacityOut [2]float64
}

// NewThumbnail creates a thumbnail. Its node must end up below a node
// passed to ProvideRegistry.
func NewThumbnail(cfg ThumbnailConfig) *Thumbnail {
	t := &Thumbnail{
		cfg:        cfg,
		opacityIn:  [2]float64{1, 0},
		opacityOut: [2]float64{0, 1},
	}
	t.node = NewImage("thumbnail:"+cfg.AssetID, cfg.Width, cfg.Height, cfg.Fit)
	t.node.Interactable = true
	t.node.UserData = cfg.AssetID
	t.node.OnClick = func(ClickContext) { t.Press() }
	t.node.OnUpdate = func(float64) {
		if a := t.Opacity(); a != t.node.Alpha {
			t.node.SetAlpha(a)
		}
	}
	return t
}

// Node returns the thumbnail's image node.
func (t *Thumbnail) Node() *Node { return t.node }

// Config returns the configuration the thumbnail was built with.
func (t *Thumbnail) Config() ThumbnailConfig { return t.cfg }

// Natural returns the image's natural size and whether it is known.
func (t *Thumbnail) Natural() (Size, bool) { return t.natural, t.hasNatural }

// Err returns the last natural-size resolution error.
func (t *Thumbnail) Err() error { return t.err }

// SetImage shows img and records the natural size of the full image.
func (t *Thumbnail) SetImage(img *ebiten.Image, natural Size) {
	t.node.SetCustomImage(img)
	t.SetNatural(natural)
}

// SetNatural records the natural size. Sizes that are not positive leave the
// thumbnail unpressable.
func (t *Thumbnail) SetNatural(natural Size) {
	if !natural.Positive() {
		return
	}
	t.natural = natural
	t.hasNatural = true
	t.err = nil
}

// Fail records a natural-size resolution error. The thumbnail stays
// unpressable.
func (t *Thumbnail) Fail(err error) {
	t.err = err
	if t.OnError != nil {
		t.OnError(err)
	}
}

// Press measures the thumbnail and opens it in the registry. It does nothing
// and returns false until the natural size is known, or while another
// payload is open.
func (t *Thumbnail) Press() bool {
	if !t.hasNatural {
		return false
	}
	reg := RegistryFrom(t.node)
	if reg.IsOpen() {
		return false
	}
	container := t.node.Measure()
	reg.Open(TransitionPayload{
		Source:    t.cfg.Source,
		AssetID:   t.cfg.AssetID,
		Natural:   t.natural,
		Container: container,
		Visible:   ResolveVisibleRect(container, t.natural, t.cfg.Fit),
		Fit:       t.cfg.Fit,
	})
	return true
}

// Opacity is 0 while this thumbnail's image is in flight in the overlay and
// 1 otherwise.
func (t *Thumbnail) Opacity() float64 {
	reg := RegistryFrom(t.node)
	if !reg.IsOpen() || reg.SelectedID() != t.cfg.AssetID {
		return 1
	}
	return Interpolate(reg.Animating().Value(), t.opacityIn[:], t.opacityOut[:], ExtrapolateClamp)
}
