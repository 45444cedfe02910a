package lightbox

import "fmt"

// TransitionPayload describes the image that is expanding into, shown in, or
// collapsing out of the fullscreen viewer.
type TransitionPayload struct {
	// Source is the image reference handed to the ImageLoader.
	Source string
	// AssetID identifies the underlying photo; unique per asset.
	AssetID string
	// Natural is the decoded image's pixel size.
	Natural Size
	// Container is the thumbnail's on-screen rectangle at press time. The
	// enter animation starts here and the exit animation ends here.
	Container Rect
	// Visible is Container resolved through Fit and Natural.
	Visible Rect
	// Fit is the thumbnail's content-fit mode.
	Fit ContentFit
}

// Registry holds the process-wide transition state: at most one payload, the
// id of the selected asset, and the animating flag. Create one per screen with
// NewRegistry and attach it to a subtree with ProvideRegistry.
//
// Registry is not safe for concurrent use; call it from the update goroutine.
// The flag returned by Animating is atomic and may be read anywhere.
type Registry struct {
	payload    TransitionPayload
	open       bool
	selected   string
	generation uint64
	animating  Flag
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Open makes p the current payload and selects p.AssetID. An existing payload
// is overwritten; only one fullscreen view is ever mounted.
func (r *Registry) Open(p TransitionPayload) {
	r.payload = p
	r.open = true
	r.selected = p.AssetID
	r.generation++
}

// Close clears the payload and the selected id. The animating flag is left to
// the view, which drops it after the exit animation's last frame.
func (r *Registry) Close() {
	r.payload = TransitionPayload{}
	r.open = false
	r.selected = ""
}

// Payload returns the current payload and whether one is present.
func (r *Registry) Payload() (TransitionPayload, bool) {
	return r.payload, r.open
}

// IsOpen reports whether a payload is present.
func (r *Registry) IsOpen() bool {
	return r.open
}

// SelectedID returns the asset id of the current payload, or "".
func (r *Registry) SelectedID() string {
	return r.selected
}

// Generation increments on every Open. The overlay uses it to tell an
// overwrite apart from the payload it already mounted.
func (r *Registry) Generation() uint64 {
	return r.generation
}

// Animating returns the shared animating flag.
func (r *Registry) Animating() *Flag {
	return &r.animating
}

// ProvideRegistry attaches reg to node. Every descendant of node can reach it
// through RegistryFrom.
func ProvideRegistry(node *Node, reg *Registry) {
	if reg == nil {
		panic("lightbox: ProvideRegistry with nil Registry")
	}
	node.registry = reg
}

// RegistryFrom returns the registry provided on node or its nearest ancestor.
// It panics when none is found: reading transition state outside a provided
// scope is an integration bug.
func RegistryFrom(node *Node) *Registry {
	for p := node; p != nil; p = p.Parent {
		if p.registry != nil {
			return p.registry
		}
	}
	name := "<nil>"
	if node != nil {
		name = node.Name
	}
	panic(fmt.Sprintf("lightbox: RegistryFrom(%q): no Registry provided on this node or its ancestors; wrap the subtree with ProvideRegistry", name))
}
