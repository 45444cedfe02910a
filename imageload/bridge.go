package imageload

import (
	"context"

	"github.com/phanxgames/lightbox"
)

// Bridge serves lightbox.ImageLoader requests from a Loader. Decodes run on
// their own goroutines; results are handed back through post, which must run
// its function on the UI goroutine (Scene.Post does).
type Bridge struct {
	ctx    context.Context
	loader *Loader
	post   func(func())
}

// NewBridge returns a Bridge. Requests still running when ctx is done fail
// with its error.
func NewBridge(ctx context.Context, loader *Loader, post func(func())) *Bridge {
	return &Bridge{ctx: ctx, loader: loader, post: post}
}

// Load implements lightbox.ImageLoader.
func (b *Bridge) Load(req lightbox.LoadRequest, done func(lightbox.LoadResult)) {
	go func() {
		res, err := b.loader.Load(b.ctx, req.Source, req.MaxEdge)
		out := lightbox.LoadResult{Image: res.Image, Natural: res.Natural, Err: err}
		b.post(func() { done(out) })
	}()
}

var _ lightbox.ImageLoader = (*Bridge)(nil)
