package gallery

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/lightbox"
	"github.com/phanxgames/lightbox/media"
	"github.com/rs/zerolog"
	"github.com/tanema/gween/ease"
)

const (
	// pullDistance is how far past the top a drag must pull to step back a
	// page or reload.
	pullDistance = 60
	// overscrollResistance scales drag movement beyond either end.
	overscrollResistance = 0.5
	springSeconds        = 0.3
	wheelStep            = 40
	headerZIndex         = 10
	title                = "Photos"
)

var cellBackground = lightbox.Color{R: 245.0 / 255, G: 245.0 / 255, B: 245.0 / 255, A: 1}

type cell struct {
	asset media.Asset
	bg    *lightbox.Node
	thumb *lightbox.Thumbnail
	gone  bool
}

// Gallery is the photo grid screen. All methods run on the UI goroutine.
type Gallery struct {
	ctx    context.Context
	scene  *lightbox.Scene
	cfg    Config
	layout Layout
	pager  *media.Pager
	images lightbox.ImageLoader
	logger zerolog.Logger

	reg     *lightbox.Registry
	overlay *lightbox.Overlay
	root    *lightbox.Node
	content *lightbox.Node
	header  *lightbox.Label

	assets  []media.Asset
	cells   []*cell
	byID    map[string]*cell
	total   int
	hasNext bool
	status  string

	scroll      lightbox.Value
	spring      *lightbox.TweenGroup
	dragging    bool
	dragPointer int

	fetching       bool
	refreshPending bool

	handles []lightbox.CallbackHandle
}

// New builds the gallery under scene's root and starts loading the first
// page. Thumbnails and fullscreen images are requested from images.
func New(ctx context.Context, scene *lightbox.Scene, provider media.Provider, images lightbox.ImageLoader, cfg Config) *Gallery {
	g := &Gallery{
		ctx:    ctx,
		scene:  scene,
		cfg:    cfg,
		layout: NewLayout(cfg),
		pager:  media.NewPager(provider, cfg.PageSize),
		images: images,
		logger: zerolog.Nop(),
		reg:    lightbox.NewRegistry(),
		byID:   make(map[string]*cell),
	}
	screen := cfg.Screen()

	g.root = lightbox.NewContainer("gallery")
	lightbox.ProvideRegistry(g.root, g.reg)
	g.root.OnUpdate = g.update

	g.content = lightbox.NewContainer("grid")
	g.root.AddChild(g.content)

	g.header = lightbox.NewLabel("header", int(screen.Width), int(g.layout.Top))
	g.header.SetBackground(color.RGBA{0, 0, 0, 160})
	g.header.Node().SetZIndex(headerZIndex)
	g.root.AddChild(g.header.Node())

	g.overlay = lightbox.NewOverlay(g.reg, images, screen)
	g.overlay.Options = cfg.ViewOptions()
	g.root.AddChild(g.overlay.Node())

	scene.ClearColor = lightbox.ColorWhite
	scene.Root().AddChild(g.root)

	g.handles = append(g.handles,
		scene.OnDragStart(g.onDragStart),
		scene.OnDrag(g.onDrag),
		scene.OnDragEnd(g.onDragEnd),
		scene.OnWheel(g.onWheel),
	)
	g.updateHeader()
	g.Refresh()
	return g
}

// SetLogger sets the logger for the gallery, its pager and its overlay.
func (g *Gallery) SetLogger(l zerolog.Logger) {
	g.logger = l
	g.pager.SetLogger(l)
	g.overlay.SetLogger(l)
}

// Node returns the gallery's root node.
func (g *Gallery) Node() *lightbox.Node { return g.root }

// Registry returns the shared image registry the thumbnails open into.
func (g *Gallery) Registry() *lightbox.Registry { return g.reg }

// Overlay returns the fullscreen overlay.
func (g *Gallery) Overlay() *lightbox.Overlay { return g.overlay }

// Layout returns the grid layout.
func (g *Gallery) Layout() Layout { return g.layout }

// Scroll returns the scroll offset. Negative values pull past the top.
func (g *Gallery) Scroll() float64 { return g.scroll.Load() }

// HeaderText returns the header's current text.
func (g *Gallery) HeaderText() string { return g.header.Text() }

// Loading reports whether a page load is in flight.
func (g *Gallery) Loading() bool { return g.fetching }

// Thumbnails returns the grid cells in display order.
func (g *Gallery) Thumbnails() []*lightbox.Thumbnail {
	out := make([]*lightbox.Thumbnail, len(g.cells))
	for i, c := range g.cells {
		out[i] = c.thumb
	}
	return out
}

// Refresh reloads the first page. A refresh requested while a load runs is
// performed after it.
func (g *Gallery) Refresh() {
	if g.fetching {
		g.refreshPending = true
		return
	}
	g.fetch("refresh", g.pager.Refresh)
}

// Close detaches the gallery from the scene.
func (g *Gallery) Close() {
	for _, h := range g.handles {
		h.Remove()
	}
	g.handles = nil
	g.root.Dispose()
}

// fetch runs a pager operation off the UI goroutine and applies the result
// on a later frame.
func (g *Gallery) fetch(what string, op func(context.Context) (bool, error)) {
	if g.fetching {
		return
	}
	g.fetching = true
	go func() {
		ok, err := op(g.ctx)
		g.scene.Post(func() { g.loaded(what, ok, err) })
	}()
}

func (g *Gallery) loaded(what string, ok bool, err error) {
	g.fetching = false
	if g.root.IsDisposed() {
		return
	}
	switch {
	case err != nil:
		g.logger.Error().Err(err).Str("op", what).Msg("error fetching photos")
		if errors.Is(err, media.ErrPermissionDenied) {
			g.status = "No access to photos"
		}
	case ok:
		g.status = ""
		g.sync()
	}
	if g.refreshPending {
		g.refreshPending = false
		g.Refresh()
	}
}

// sync rebuilds the grid from the pager, keeping cells whose asset is still
// listed.
func (g *Gallery) sync() {
	snap := g.pager.Snapshot()
	keep := make(map[string]bool, len(snap.Assets))
	for _, a := range snap.Assets {
		keep[a.ID] = true
	}
	for id, c := range g.byID {
		if !keep[id] {
			c.gone = true
			c.bg.Dispose()
			c.thumb.Node().Dispose()
			delete(g.byID, id)
		}
	}

	g.cells = g.cells[:0]
	for i, a := range snap.Assets {
		c, ok := g.byID[a.ID]
		if !ok {
			c = g.newCell(a)
			g.byID[a.ID] = c
		}
		c.asset = a
		r := g.layout.CellRect(i)
		c.bg.SetPosition(r.X, r.Y)
		c.thumb.Node().SetPosition(r.X, r.Y)
		g.cells = append(g.cells, c)
	}
	g.assets = snap.Assets
	g.total = snap.Total
	g.hasNext = snap.HasNext
	if !g.dragging {
		g.settle()
	}
	g.logger.Debug().Int("page", snap.Page).Int("cells", len(g.cells)).Bool("has_next", snap.HasNext).Msg("grid updated")
}

func (g *Gallery) newCell(a media.Asset) *cell {
	w, h := g.layout.CellWidth(), g.layout.CellHeight
	c := &cell{asset: a}

	c.bg = lightbox.NewSprite("cell:"+a.ID, nil)
	c.bg.Color = cellBackground
	c.bg.SetScale(w, h)
	g.content.AddChild(c.bg)

	c.thumb = lightbox.NewThumbnail(lightbox.ThumbnailConfig{
		AssetID: a.ID,
		Source:  a.URI,
		Fit:     g.cfg.Fit,
		Width:   w,
		Height:  h,
	})
	c.thumb.OnError = func(err error) {
		g.logger.Warn().Err(err).Str("asset", a.ID).Msg("thumbnail unavailable")
	}
	g.content.AddChild(c.thumb.Node())

	if g.images != nil {
		g.images.Load(lightbox.LoadRequest{Source: a.URI, MaxEdge: g.cfg.ThumbnailEdge}, func(res lightbox.LoadResult) {
			if c.gone {
				return
			}
			if res.Err != nil {
				c.thumb.Fail(res.Err)
				return
			}
			var img *ebiten.Image
			if res.Image != nil {
				img = ebiten.NewImageFromImage(res.Image)
			}
			c.thumb.SetImage(img, res.Natural)
		})
	}
	return c
}

func (g *Gallery) update(dt float64) {
	if g.spring != nil {
		g.spring.Update(float32(dt))
		if g.spring.Done {
			g.spring = nil
		}
	}
	if y := -g.scroll.Load(); g.content.Y != y {
		g.content.SetPosition(0, y)
	}
	if !g.fetching && g.hasNext && len(g.cells) > 0 && g.layout.NearEnd(len(g.cells), g.scroll.Load()) {
		g.fetch("next", g.pager.LoadNext)
	}
	g.updateHeader()
}

func (g *Gallery) updateHeader() {
	sub := g.status
	if sub == "" {
		earliest, ok := g.layout.EarliestVisible(g.assets, g.scroll.Load())
		sub = HeaderSubtitle(earliest, ok, max(g.total, len(g.assets)))
	}
	g.header.SetText(title + "\n" + sub)
}

// --- Scrolling ---

func (g *Gallery) stopSpring() {
	if g.spring != nil {
		g.spring.Cancel()
		g.spring = nil
	}
}

// settle springs the scroll offset back inside the content.
func (g *Gallery) settle() {
	cur := g.scroll.Load()
	target := min(max(cur, 0), g.layout.MaxScroll(len(g.cells)))
	if target == cur {
		return
	}
	g.stopSpring()
	g.spring = lightbox.TweenValue(&g.scroll, target, springSeconds, ease.OutQuad)
}

func (g *Gallery) onDragStart(ctx lightbox.DragContext) {
	if g.reg.IsOpen() || g.dragging {
		return
	}
	g.dragging = true
	g.dragPointer = ctx.PointerID
	g.stopSpring()
}

func (g *Gallery) onDrag(ctx lightbox.DragContext) {
	if !g.dragging || ctx.PointerID != g.dragPointer {
		return
	}
	cur := g.scroll.Load()
	next := cur - ctx.DeltaY
	if next < 0 || next > g.layout.MaxScroll(len(g.cells)) {
		next = cur - ctx.DeltaY*overscrollResistance
	}
	g.scroll.Store(next)
}

func (g *Gallery) onDragEnd(ctx lightbox.DragContext) {
	if !g.dragging || ctx.PointerID != g.dragPointer {
		return
	}
	g.dragging = false
	if g.scroll.Load() < -pullDistance && !g.fetching && !g.pager.Loading() {
		if g.pager.Snapshot().Page > 1 {
			g.fetch("previous", g.pager.Previous)
		} else {
			g.fetch("refresh", g.pager.Refresh)
		}
	}
	g.settle()
}

func (g *Gallery) onWheel(ctx lightbox.WheelContext) {
	if g.reg.IsOpen() || g.dragging {
		return
	}
	g.stopSpring()
	next := g.scroll.Load() - ctx.DeltaY*wheelStep
	g.scroll.Store(min(max(next, 0), g.layout.MaxScroll(len(g.cells))))
}
