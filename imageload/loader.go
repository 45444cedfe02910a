// Package imageload decodes library images for display. It resolves natural
// sizes from headers, applies EXIF orientation, downscales to a requested
// edge, caches decoded results and bounds how many decodes run at once.
package imageload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strconv"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/phanxgames/lightbox"
	"github.com/phanxgames/lightbox/media"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// ErrUnsupported is returned for files no registered decoder understands.
var ErrUnsupported = errors.New("imageload: unsupported image")

// Options configures a Loader.
type Options struct {
	// CacheSize is how many decoded images stay in memory. Zero disables
	// caching.
	CacheSize int
	// Concurrency bounds simultaneous decodes. Values below 1 mean 1.
	Concurrency int
}

// DefaultOptions returns a 64 entry cache and 4 concurrent decodes.
func DefaultOptions() Options {
	return Options{CacheSize: 64, Concurrency: 4}
}

// Result is a decoded, oriented and possibly downscaled image. Natural is
// the oriented size before downscaling.
type Result struct {
	Image   image.Image
	Natural lightbox.Size
}

// Loader decodes images. Concurrent requests for the same source and edge
// share one decode. Loader is safe for concurrent use.
type Loader struct {
	sem    *semaphore.Weighted
	group  singleflight.Group
	cache  *cache
	logger zerolog.Logger

	decodes atomic.Int64
}

// New returns a Loader.
func New(opts Options) *Loader {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Loader{
		sem:    semaphore.NewWeighted(int64(opts.Concurrency)),
		cache:  newCache(opts.CacheSize),
		logger: zerolog.Nop(),
	}
}

// SetLogger sets the logger used for decode diagnostics.
func (l *Loader) SetLogger(lg zerolog.Logger) {
	l.logger = lg
}

// Decodes returns how many decodes have run.
func (l *Loader) Decodes() int64 {
	return l.decodes.Load()
}

// Size returns the oriented natural size of source from its header.
func (l *Loader) Size(source string) (lightbox.Size, error) {
	info, err := media.Probe(source)
	if err != nil {
		return lightbox.Size{}, classify(source, err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return lightbox.Size{}, fmt.Errorf("%w: %s has no dimensions", ErrUnsupported, source)
	}
	return lightbox.Size{Width: float64(info.Width), Height: float64(info.Height)}, nil
}

// Load decodes source so that its longer edge is at most maxEdge pixels.
// maxEdge 0 keeps the full size. Images are never upscaled.
func (l *Loader) Load(ctx context.Context, source string, maxEdge int) (Result, error) {
	key := source + "@" + strconv.Itoa(maxEdge)
	if res, ok := l.cache.get(key); ok {
		return res, nil
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		if res, ok := l.cache.get(key); ok {
			return res, nil
		}
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return Result{}, err
		}
		defer l.sem.Release(1)
		res, err := l.decode(source, maxEdge)
		if err != nil {
			return Result{}, err
		}
		l.cache.add(key, res)
		return res, nil
	})
	if err != nil {
		l.logger.Warn().Err(err).Str("source", source).Msg("image load failed")
		return Result{}, err
	}
	return v.(Result), nil
}

func (l *Loader) decode(source string, maxEdge int) (Result, error) {
	l.decodes.Add(1)
	img, err := imaging.Open(media.PathFromURI(source), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, classify(source, err)
	}
	b := img.Bounds()
	res := Result{
		Image:   img,
		Natural: lightbox.Size{Width: float64(b.Dx()), Height: float64(b.Dy())},
	}
	if maxEdge > 0 && max(b.Dx(), b.Dy()) > maxEdge {
		res.Image = imaging.Fit(img, maxEdge, maxEdge, imaging.Lanczos)
	}
	l.logger.Debug().Str("source", source).Int("width", b.Dx()).Int("height", b.Dy()).Int("max_edge", maxEdge).Msg("image decoded")
	return res, nil
}

func classify(source string, err error) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %s", ErrUnsupported, source)
	}
	return fmt.Errorf("load %s: %w", source, err)
}
