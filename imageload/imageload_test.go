package imageload

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/phanxgames/lightbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, imaging.Save(imaging.New(w, h, color.NRGBA{G: 180, A: 255}), path))
	return path
}

// writeRotatedJPEG writes a w x h JPEG tagged with an EXIF orientation.
func writeRotatedJPEG(t *testing.T, w, h int, orientation byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{B: 255, A: 255}), imaging.JPEG))
	raw := buf.Bytes()
	app1 := []byte{
		0xFF, 0xE1, 0x00, 34,
		'E', 'x', 'i', 'f', 0, 0,
		'M', 'M', 0x00, 0x2A, 0, 0, 0, 8,
		0, 1,
		0x01, 0x12, 0, 3, 0, 0, 0, 1, 0, orientation, 0, 0,
		0, 0, 0, 0,
	}
	out := append([]byte{}, raw[:2]...)
	out = append(out, app1...)
	out = append(out, raw[2:]...)
	path := filepath.Join(t.TempDir(), "rotated.jpg")
	require.NoError(t, os.WriteFile(path, out, 0o644))
	return path
}

func TestSize(t *testing.T) {
	l := New(DefaultOptions())
	size, err := l.Size(writeImage(t, "a.png", 64, 48))
	require.NoError(t, err)
	assert.Equal(t, lightbox.Size{Width: 64, Height: 48}, size)
}

func TestSizeSwapsRotatedExif(t *testing.T) {
	l := New(DefaultOptions())
	path := writeRotatedJPEG(t, 40, 20, 6)

	size, err := l.Size(path)
	require.NoError(t, err)
	assert.Equal(t, lightbox.Size{Width: 20, Height: 40}, size)

	res, err := l.Load(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, size, res.Natural, "decode and header agree")
	assert.Equal(t, 20, res.Image.Bounds().Dx())
	assert.Equal(t, 40, res.Image.Bounds().Dy())
}

func TestSizeErrors(t *testing.T) {
	l := New(DefaultOptions())
	_, err := l.Size(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bogus := filepath.Join(t.TempDir(), "bogus.jpg")
	require.NoError(t, os.WriteFile(bogus, []byte("plain text"), 0o644))
	_, err = l.Size(bogus)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = l.Load(context.Background(), bogus, 0)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoadDownscalesNeverUpscales(t *testing.T) {
	l := New(DefaultOptions())
	path := writeImage(t, "wide.png", 400, 200)
	ctx := context.Background()

	small, err := l.Load(ctx, path, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, small.Image.Bounds().Dx())
	assert.Equal(t, 50, small.Image.Bounds().Dy())
	assert.Equal(t, lightbox.Size{Width: 400, Height: 200}, small.Natural)

	full, err := l.Load(ctx, path, 1000)
	require.NoError(t, err)
	assert.Equal(t, 400, full.Image.Bounds().Dx())
}

func TestLoadFileURI(t *testing.T) {
	path := writeImage(t, "u.png", 8, 8)
	res, err := New(DefaultOptions()).Load(context.Background(), "file://"+path, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Image.Bounds().Dx())
}

func TestLoadDedupesConcurrentRequests(t *testing.T) {
	l := New(Options{CacheSize: 8, Concurrency: 2})
	path := writeImage(t, "shared.png", 300, 300)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background(), path, 64)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), l.Decodes())

	_, err := l.Load(context.Background(), path, 128)
	require.NoError(t, err)
	assert.Equal(t, int64(2), l.Decodes(), "a different edge is a different entry")
}

func TestCacheEvictsLeastRecent(t *testing.T) {
	l := New(Options{CacheSize: 1, Concurrency: 1})
	a := writeImage(t, "a.png", 4, 4)
	b := writeImage(t, "b.png", 4, 4)
	ctx := context.Background()
	for _, p := range []string{a, b, a} {
		_, err := l.Load(ctx, p, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), l.Decodes())
	assert.Equal(t, 1, l.cache.len())
}

func TestCacheDisabled(t *testing.T) {
	l := New(Options{})
	path := writeImage(t, "n.png", 4, 4)
	for i := 0; i < 2; i++ {
		_, err := l.Load(context.Background(), path, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), l.Decodes())
}

func TestLoadCancelledWaitingForSlot(t *testing.T) {
	l := New(Options{Concurrency: 1})
	require.NoError(t, l.sem.Acquire(context.Background(), 1))
	defer l.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, writeImage(t, "c.png", 4, 4), 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, l.Decodes())
}

func TestBridgeDeliversThroughPost(t *testing.T) {
	posted := make(chan func(), 1)
	b := NewBridge(context.Background(), New(DefaultOptions()), func(fn func()) { posted <- fn })
	path := writeImage(t, "b.png", 30, 10)

	var got lightbox.LoadResult
	called := false
	b.Load(lightbox.LoadRequest{Source: path, MaxEdge: 15}, func(r lightbox.LoadResult) {
		called = true
		got = r
	})
	fn := <-posted
	assert.False(t, called, "done waits for the posted turn")
	fn()
	require.True(t, called)
	require.NoError(t, got.Err)
	assert.Equal(t, lightbox.Size{Width: 30, Height: 10}, got.Natural)
	assert.Equal(t, 15, got.Image.Bounds().Dx())
}

func TestBridgeReportsErrors(t *testing.T) {
	posted := make(chan func(), 1)
	b := NewBridge(context.Background(), New(DefaultOptions()), func(fn func()) { posted <- fn })
	var got lightbox.LoadResult
	b.Load(lightbox.LoadRequest{Source: filepath.Join(t.TempDir(), "gone.png")}, func(r lightbox.LoadResult) { got = r })
	(<-posted)()
	assert.Error(t, got.Err)
	assert.Nil(t, got.Image)
}
