package media

import (
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/tiff" // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// Info is what Probe learns from a file header without decoding pixels.
type Info struct {
	// Width and Height are the displayed dimensions, already swapped for
	// EXIF orientations that rotate by 90 degrees.
	Width, Height int
	Format        string
	// Orientation is the EXIF orientation tag, 1 when absent.
	Orientation int
	// Taken is the EXIF capture time, zero when absent.
	Taken time.Time
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsImageFile reports whether name has an extension the library lists.
func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// PathFromURI strips a file:// scheme.
func PathFromURI(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}

// Probe reads the image header and EXIF block of path.
func Probe(path string) (Info, error) {
	f, err := os.Open(PathFromURI(path))
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	info := Info{Width: cfg.Width, Height: cfg.Height, Format: format, Orientation: 1}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return info, nil
	}
	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF block is the common case for png, gif and screenshots.
		return info, nil
	}
	if tag, err := x.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil && o >= 1 && o <= 8 {
			info.Orientation = o
		}
	}
	if t, err := x.DateTime(); err == nil {
		info.Taken = t
	}
	if RotatesQuarter(info.Orientation) {
		info.Width, info.Height = info.Height, info.Width
	}
	return info, nil
}

// RotatesQuarter reports whether an EXIF orientation turns the image by 90
// degrees, swapping its width and height.
func RotatesQuarter(orientation int) bool {
	return orientation >= 5 && orientation <= 8
}
