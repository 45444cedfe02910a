// Package lightbox is a photo gallery viewer for [Ebitengine] with a
// shared-element fullscreen transition.
//
// Tapping a [Thumbnail] opens its image in a [Registry]. The [Overlay] sees
// the payload and mounts a [FullscreenView], which grows the image from the
// thumbnail's on-screen rectangle to a fullscreen rectangle that respects
// the thumbnail's [ContentFit]. Pan and pinch gestures move and shrink the
// image; releasing far enough collapses it back into the thumbnail,
// otherwise it settles back to fullscreen.
//
// # Quick start
//
//	scene := lightbox.NewScene()
//	reg := lightbox.NewRegistry()
//	lightbox.ProvideRegistry(scene.Root(), reg)
//
//	thumb := lightbox.NewThumbnail(lightbox.ThumbnailConfig{
//		AssetID: "a1", Source: "photos/a1.jpg",
//		Fit: lightbox.FitCover, Width: 129, Height: 120,
//	})
//	thumb.SetImage(img, lightbox.Size{Width: 4032, Height: 3024})
//	scene.Root().AddChild(thumb.Node())
//
//	overlay := lightbox.NewOverlay(reg, loader, lightbox.Size{Width: 390, Height: 844})
//	scene.Root().AddChild(overlay.Node())
//
//	lightbox.Run(scene, lightbox.RunConfig{Title: "Photos", Width: 390, Height: 844})
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]; children inherit their parent's position, scale and alpha.
// [Scene.Update] runs posted work, input and every [Node.OnUpdate] on one
// goroutine. Work finished on other goroutines comes back through
// [Scene.Post].
//
// # Animated state
//
// The fullscreen rectangle lives in a [Quad] of atomic [Value] cells and the
// registry's animating [Flag] is atomic too, so they can be read from Draw
// while Update writes them. Timed animations are [TweenGroup]s built on
// [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package lightbox
