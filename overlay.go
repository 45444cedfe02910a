package lightbox

import "github.com/rs/zerolog"

// overlayZIndex keeps the overlay above every sibling the app adds to root.
const overlayZIndex = 1 << 16

// Overlay is the top-most layer that shows the FullscreenView for the
// registry's payload. It is hidden and ignores input while no payload is
// present, and never holds more than one view.
type Overlay struct {
	node   *Node
	reg    *Registry
	loader ImageLoader
	screen Size

	// Options applies to views mounted after it is set.
	Options ViewOptions

	view   *FullscreenView
	gen    uint64
	logger zerolog.Logger
}

// NewOverlay creates an overlay for reg. Add Node() to the scene root.
func NewOverlay(reg *Registry, loader ImageLoader, screen Size) *Overlay {
	if reg == nil {
		panic("lightbox: NewOverlay with nil Registry")
	}
	o := &Overlay{
		node:    NewContainer("overlay"),
		reg:     reg,
		loader:  loader,
		screen:  screen,
		Options: DefaultViewOptions(),
		logger:  zerolog.Nop(),
	}
	o.node.ZIndex = overlayZIndex
	o.node.Visible = false
	o.node.OnUpdate = func(float64) { o.Sync() }
	ProvideRegistry(o.node, reg)
	return o
}

// SetLogger sets the logger handed to mounted views.
func (o *Overlay) SetLogger(l zerolog.Logger) {
	o.logger = l
}

// Node returns the overlay's root node.
func (o *Overlay) Node() *Node {
	return o.node
}

// View returns the mounted view, or nil.
func (o *Overlay) View() *FullscreenView {
	return o.view
}

// Sync mounts, replaces or unmounts the view to match the registry. It runs
// every frame as the node's OnUpdate.
func (o *Overlay) Sync() {
	p, open := o.reg.Payload()
	switch {
	case open && (o.view == nil || o.gen != o.reg.Generation()):
		o.unmount()
		o.mount(p)
	case !open && o.view != nil:
		o.unmount()
	}
	o.node.Visible = o.view != nil
	o.node.Interactable = o.view != nil
}

func (o *Overlay) mount(p TransitionPayload) {
	o.gen = o.reg.Generation()
	v := NewFullscreenView(p, o.screen, o.reg.Animating(), o.close, o.Options)
	v.SetLogger(o.logger)
	o.view = v
	o.node.AddChild(v.Node())
	o.logger.Debug().Str("asset", p.AssetID).Uint64("generation", o.gen).Msg("overlay mounted view")
	if o.loader != nil {
		v.Load(o.loader)
	} else {
		v.ImageLoaded()
	}
}

// close is the view's exit callback. The view itself is unmounted by the
// next Sync.
func (o *Overlay) close() {
	o.reg.Close()
	o.node.Visible = false
	o.node.Interactable = false
}

func (o *Overlay) unmount() {
	if o.view == nil {
		return
	}
	o.logger.Debug().Str("asset", o.view.Payload().AssetID).Msg("overlay unmounted view")
	o.view.Dispose()
	o.view = nil
}
