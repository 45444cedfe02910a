package lightbox

import (
	"testing"
)

// instantLoader completes every request synchronously.
var instantLoader = LoaderFunc(func(req LoadRequest, done func(LoadResult)) {
	done(LoadResult{Natural: Size{400, 400}})
})

func TestOverlayHiddenWithoutPayload(t *testing.T) {
	reg := NewRegistry()
	o := NewOverlay(reg, instantLoader, testScreen)
	o.Sync()
	if o.Node().Visible || o.Node().Interactable {
		t.Error("overlay should be hidden and inert without a payload")
	}
	if o.View() != nil {
		t.Error("no view should be mounted")
	}
}

func TestOverlayMountsSingleView(t *testing.T) {
	reg := NewRegistry()
	o := NewOverlay(reg, instantLoader, testScreen)

	reg.Open(TransitionPayload{AssetID: "A", Natural: Size{400, 400}, Container: testContainer})
	o.Sync()
	first := o.View()
	if first == nil || !o.Node().Visible || !o.Node().Interactable {
		t.Fatal("overlay should show a view while a payload is present")
	}

	o.Sync()
	if o.View() != first {
		t.Error("Sync with the same payload must keep the view")
	}

	for _, id := range []string{"B", "C", "D"} {
		reg.Open(TransitionPayload{AssetID: id, Natural: Size{400, 400}, Container: testContainer})
		o.Sync()
	}
	if got := o.Node().NumChildren(); got != 1 {
		t.Errorf("overlay has %d children, want 1", got)
	}
	if o.View().Payload().AssetID != "D" {
		t.Errorf("mounted %q, want D", o.View().Payload().AssetID)
	}
	if !first.Node().IsDisposed() {
		t.Error("replaced view was not disposed")
	}
}

func TestOverlayUnmountsOnExternalClose(t *testing.T) {
	reg := NewRegistry()
	o := NewOverlay(reg, instantLoader, testScreen)
	reg.Open(TransitionPayload{AssetID: "A", Natural: Size{400, 400}, Container: testContainer})
	o.Sync()
	v := o.View()

	reg.Close()
	o.Sync()
	if o.View() != nil || o.Node().Visible {
		t.Error("overlay should unmount when the payload is cleared")
	}
	if v.State() != ViewClosed {
		t.Errorf("state = %v, want closed", v.State())
	}
	if reg.Animating().On() {
		t.Error("flag left on after unmount")
	}
}

type galleryFixture struct {
	scene   *Scene
	reg     *Registry
	thumb   *Thumbnail
	overlay *Overlay
}

func newGalleryFixture() *galleryFixture {
	f := &galleryFixture{scene: NewScene(), reg: NewRegistry()}
	ProvideRegistry(f.scene.Root(), f.reg)

	f.thumb = NewThumbnail(ThumbnailConfig{AssetID: "A", Source: "a.jpg", Fit: FitContain, Width: 120, Height: 120})
	f.thumb.Node().SetPosition(testContainer.X, testContainer.Y)
	f.thumb.SetNatural(Size{400, 400})
	f.scene.Root().AddChild(f.thumb.Node())

	f.overlay = NewOverlay(f.reg, instantLoader, testScreen)
	f.scene.Root().AddChild(f.overlay.Node())
	return f
}

func (f *galleryFixture) frames(n int) {
	for i := 0; i < n; i++ {
		f.scene.Update()
	}
}

func (f *galleryFixture) open(t *testing.T) {
	t.Helper()
	f.scene.InjectClick(50, 150)
	f.frames(2)
	p, ok := f.reg.Payload()
	if !ok {
		t.Fatal("click did not open the thumbnail")
	}
	assertRect(t, "Container", p.Container, testContainer)
	f.frames(20)
	v := f.overlay.View()
	if v == nil || v.State() != ViewResting {
		t.Fatalf("view not resting after enter: %v", v)
	}
	if !f.reg.Animating().On() {
		t.Error("flag should be 1 while the view is open")
	}
	if f.thumb.Node().Alpha != 0 {
		t.Errorf("thumbnail alpha = %v while open, want 0", f.thumb.Node().Alpha)
	}
}

func (f *galleryFixture) assertClosed(t *testing.T) {
	t.Helper()
	f.frames(30)
	if f.reg.IsOpen() {
		t.Error("payload still present")
	}
	if f.reg.Animating().On() {
		t.Error("flag still 1")
	}
	if f.overlay.View() != nil || f.overlay.Node().Visible {
		t.Error("overlay still showing a view")
	}
	if f.thumb.Node().Alpha != 1 {
		t.Errorf("thumbnail alpha = %v after close, want 1", f.thumb.Node().Alpha)
	}
}

func TestTransitionCycleRepeats(t *testing.T) {
	f := newGalleryFixture()

	for i := 0; i < 2; i++ {
		f.open(t)
		f.scene.InjectDrag(200, 400, 200, 800, 10)
		f.frames(10)
		if s := f.overlay.View().State(); s != ViewExiting {
			t.Fatalf("cycle %d: state after pan = %v, want exiting", i, s)
		}
		f.assertClosed(t)

		f.open(t)
		f.scene.InjectPinch(200, 400, 200, 50, 10)
		f.frames(10)
		if s := f.overlay.View().State(); s != ViewExiting {
			t.Fatalf("cycle %d: state after pinch = %v, want exiting", i, s)
		}
		f.assertClosed(t)
	}
}

func TestTransitionShortPanSettles(t *testing.T) {
	f := newGalleryFixture()
	f.open(t)
	f.scene.InjectDrag(200, 400, 220, 450, 6)
	f.frames(6)
	v := f.overlay.View()
	if v.State() != ViewResting {
		t.Fatalf("state = %v, want resting", v.State())
	}
	f.frames(30)
	assertRect(t, "Rect", v.Rect(), v.Target())
	if !f.reg.IsOpen() {
		t.Error("a short pan must not close the viewer")
	}
}
