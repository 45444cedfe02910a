package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// assetNamespace seeds the name-based asset IDs.
var assetNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/phanxgames/lightbox/media"))

// AssetID returns the stable ID for a library-relative path.
func AssetID(rel string) string {
	return uuid.NewSHA1(assetNamespace, []byte(filepath.ToSlash(rel))).String()
}

// DirProvider lists the images below a directory. The first page scans the
// directory; following pages are cut from that scan, so a cursor stays valid
// until the next first-page request.
type DirProvider struct {
	root   string
	logger zerolog.Logger

	mu       sync.Mutex
	snapshot []Asset
}

// NewDirProvider returns a provider for root.
func NewDirProvider(root string) *DirProvider {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &DirProvider{root: root, logger: zerolog.Nop()}
}

// SetLogger sets the logger used for scan diagnostics.
func (p *DirProvider) SetLogger(l zerolog.Logger) {
	p.logger = l
}

// Root returns the absolute library directory.
func (p *DirProvider) Root() string {
	return p.root
}

// ListAssets implements Provider.
func (p *DirProvider) ListAssets(ctx context.Context, first int, after string) (Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if after == "" || p.snapshot == nil {
		if after != "" {
			return Page{}, ErrBadCursor
		}
		assets, err := p.scan(ctx)
		if err != nil {
			return Page{}, err
		}
		p.snapshot = assets
	}
	return paginate(p.snapshot, first, after)
}

func (p *DirProvider) scan(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == p.root {
				return err
			}
			p.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != p.root && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !IsImageFile(name) {
			return nil
		}
		assets = append(assets, p.asset(path, d))
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, p.root)
		}
		return nil, fmt.Errorf("scan library %s: %w", p.root, err)
	}
	slices.SortStableFunc(assets, lessAsset)
	p.logger.Debug().Str("root", p.root).Int("assets", len(assets)).Msg("library scanned")
	return assets, nil
}

func (p *DirProvider) asset(path string, d fs.DirEntry) Asset {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		rel = path
	}
	a := Asset{ID: AssetID(rel), URI: path}
	info, err := Probe(path)
	if err != nil {
		p.logger.Debug().Err(err).Str("path", path).Msg("no image header")
	} else {
		a.Width, a.Height = info.Width, info.Height
		a.CreationTime = info.Taken
	}
	if a.CreationTime.IsZero() {
		if fi, err := d.Info(); err == nil {
			a.CreationTime = fi.ModTime()
		}
	}
	return a
}
