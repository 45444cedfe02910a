package lightbox

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

var shotTime = time.Date(2024, 5, 2, 10, 30, 0, 0, time.UTC)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"opened", "opened"},
		{"pan-dismiss", "pan-dismiss"},
		{"page.02", "page.02"},
		{"after open", "after_open"},
		{"photos/2024", "photos_2024"},
		{"zoom 2x!", "zoom_2x_"},
		{"", "unlabeled"},
		{"  \t", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 255, // opaque red
		64, 32, 0, 128, // half-transparent orange
		0, 0, 0, 0, // transparent
	}
	img := unpremultiply(pixels, 3, 1)
	want := []color.NRGBA{
		{255, 0, 0, 255},
		{127, 63, 0, 128},
		{0, 0, 0, 0},
	}
	for x, w := range want {
		if got := img.NRGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func screenshotScene(t *testing.T, dir string) (*Scene, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s := NewScene()
	s.ScreenshotDir = dir
	s.logger = zerolog.New(&buf)
	return s, &buf
}

func TestWriteScreenshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s, logs := screenshotScene(t, dir)
	s.Screenshot("opened")
	s.Screenshot("after dismiss")

	frame := unpremultiply([]byte{64, 32, 0, 128, 0, 0, 255, 255}, 2, 1)
	paths := s.writeScreenshots(frame, shotTime)

	wantPaths := []string{
		filepath.Join(dir, "20240502_103000_opened.png"),
		filepath.Join(dir, "20240502_103000_after_dismiss.png"),
	}
	if len(paths) != len(wantPaths) {
		t.Fatalf("paths = %v, want %v", paths, wantPaths)
	}
	for i := range wantPaths {
		if paths[i] != wantPaths[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], wantPaths[i])
		}
	}
	if len(s.screenshotQueue) != 0 {
		t.Errorf("queue = %v, want empty", s.screenshotQueue)
	}

	decoded, err := imaging.Open(paths[0])
	if err != nil {
		t.Fatalf("open screenshot: %v", err)
	}
	got := imaging.Clone(decoded)
	if b := got.Bounds(); b != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", b)
	}
	if px := got.NRGBAAt(0, 0); px != (color.NRGBA{127, 63, 0, 128}) {
		t.Errorf("straight-alpha pixel = %v", px)
	}
	if px := got.NRGBAAt(1, 0); px != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("opaque pixel = %v", px)
	}
	if n := strings.Count(logs.String(), "screenshot written"); n != 2 {
		t.Errorf("logged %d writes, want 2: %s", n, logs.String())
	}
}

func TestWriteScreenshotsMkdirFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, logs := screenshotScene(t, filepath.Join(blocker, "shots"))
	s.Screenshot("opened")

	if paths := s.writeScreenshots(image.NewNRGBA(image.Rect(0, 0, 1, 1)), shotTime); paths != nil {
		t.Errorf("paths = %v, want none", paths)
	}
	if len(s.screenshotQueue) != 0 {
		t.Errorf("queue = %v, want empty after failure", s.screenshotQueue)
	}
	if !strings.Contains(logs.String(), "screenshot: mkdir") {
		t.Errorf("missing mkdir error log: %s", logs.String())
	}

	// The queue stays usable once the directory is writable.
	s.ScreenshotDir = t.TempDir()
	s.Screenshot("retry")
	if paths := s.writeScreenshots(image.NewNRGBA(image.Rect(0, 0, 1, 1)), shotTime); len(paths) != 1 {
		t.Errorf("retry paths = %v", paths)
	}
}

func TestFlushScreenshotsEmptyQueue(t *testing.T) {
	s := NewScene()
	s.ScreenshotDir = filepath.Join(t.TempDir(), "never")
	s.flushScreenshots(nil)
	if _, err := os.Stat(s.ScreenshotDir); !os.IsNotExist(err) {
		t.Errorf("empty queue should not create %s", s.ScreenshotDir)
	}
}
