package lightbox

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// LoadRequest asks an ImageLoader for one image. MaxEdge bounds the longer
// side of the returned pixels; zero means full size. Images are never
// upscaled.
type LoadRequest struct {
	Source  string
	MaxEdge int
}

// LoadResult is the outcome of a LoadRequest. Natural is the size of the
// original image after orientation, which may be larger than Image.
type LoadResult struct {
	Image   image.Image
	Natural Size
	Err     error
}

// ImageLoader resolves image sources. done is called exactly once, on the
// update goroutine.
type ImageLoader interface {
	Load(req LoadRequest, done func(LoadResult))
}

// LoaderFunc adapts a plain function to ImageLoader.
type LoaderFunc func(req LoadRequest, done func(LoadResult))

// Load calls f(req, done).
func (f LoaderFunc) Load(req LoadRequest, done func(LoadResult)) {
	f(req, done)
}

// toEbitenImage converts a decoded image for drawing. Must run on the update
// goroutine.
func toEbitenImage(img image.Image) *ebiten.Image {
	if eimg, ok := img.(*ebiten.Image); ok {
		return eimg
	}
	return ebiten.NewImageFromImage(img)
}
