package media

import (
	"context"
	"slices"
	"sync"
)

// Provider lists library assets newest first. first is the page size; after
// is the EndCursor of the previous page, or empty for the first page.
type Provider interface {
	ListAssets(ctx context.Context, first int, after string) (Page, error)
}

// MemoryProvider serves a fixed asset list. It is safe for concurrent use.
type MemoryProvider struct {
	mu     sync.RWMutex
	assets []Asset
	err    error
	calls  int
}

// NewMemoryProvider returns a provider over a copy of assets.
func NewMemoryProvider(assets ...Asset) *MemoryProvider {
	p := &MemoryProvider{}
	p.SetAssets(assets)
	return p
}

// SetAssets replaces the library contents.
func (p *MemoryProvider) SetAssets(assets []Asset) {
	sorted := slices.Clone(assets)
	slices.SortStableFunc(sorted, lessAsset)
	p.mu.Lock()
	p.assets = sorted
	p.mu.Unlock()
}

// SetError makes every following ListAssets call fail with err until it is
// cleared with nil.
func (p *MemoryProvider) SetError(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Calls returns how many times ListAssets ran.
func (p *MemoryProvider) Calls() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.calls
}

// ListAssets implements Provider.
func (p *MemoryProvider) ListAssets(ctx context.Context, first int, after string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return Page{}, p.err
	}
	return paginate(p.assets, first, after)
}
