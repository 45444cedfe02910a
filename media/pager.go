package media

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultPageSize is how many assets a page request asks for.
const DefaultPageSize = 21

// Snapshot is a copy of the pager's state.
type Snapshot struct {
	Assets  []Asset
	Page    int
	HasNext bool
	Loading bool
	Total   int
}

// Pager accumulates provider pages for a scrolling list. At most one load
// runs at a time; a load requested while another runs is skipped. Loads
// block, so callers run them off the UI goroutine. Pager is safe for
// concurrent use.
type Pager struct {
	provider Provider
	pageSize int
	logger   zerolog.Logger

	mu      sync.Mutex
	assets  []Asset
	cursor  string
	page    int
	hasNext bool
	total   int
	loading bool
}

// NewPager returns a pager over provider. A pageSize below 1 means
// DefaultPageSize.
func NewPager(provider Provider, pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Pager{provider: provider, pageSize: pageSize, logger: zerolog.Nop()}
}

// SetLogger sets the logger used for load diagnostics.
func (p *Pager) SetLogger(l zerolog.Logger) {
	p.logger = l
}

// PageSize returns the page size.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// Snapshot returns a copy of the current state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Assets:  slices.Clone(p.assets),
		Page:    p.page,
		HasNext: p.hasNext,
		Loading: p.loading,
		Total:   p.total,
	}
}

// Loading reports whether a load is running.
func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Refresh replaces the contents with the first page. It returns false without
// loading when another load is running.
func (p *Pager) Refresh(ctx context.Context) (bool, error) {
	if !p.begin(func() bool { return true }) {
		return false, nil
	}
	defer p.end()
	return true, p.load(ctx, 1, p.pageSize, "", false)
}

// LoadNext appends the page after the current one. It returns false without
// loading when another load is running, nothing was loaded yet, or the
// provider reported no next page.
func (p *Pager) LoadNext(ctx context.Context) (bool, error) {
	var after string
	var next int
	if !p.begin(func() bool {
		after, next = p.cursor, p.page+1
		return p.page > 0 && p.hasNext
	}) {
		return false, nil
	}
	defer p.end()
	return true, p.load(ctx, next, p.pageSize, after, true)
}

// Previous steps back one page, reloading everything before the current page
// from the start. It returns false when already on the first page or another
// load is running.
func (p *Pager) Previous(ctx context.Context) (bool, error) {
	var prev int
	if !p.begin(func() bool {
		prev = p.page - 1
		return prev >= 1
	}) {
		return false, nil
	}
	defer p.end()
	return true, p.load(ctx, prev, prev*p.pageSize, "", false)
}

func (p *Pager) begin(ok func() bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loading || !ok() {
		return false
	}
	p.loading = true
	return true
}

func (p *Pager) end() {
	p.mu.Lock()
	p.loading = false
	p.mu.Unlock()
}

func (p *Pager) load(ctx context.Context, page, first int, after string, appendPage bool) error {
	res, err := p.provider.ListAssets(ctx, first, after)
	if err != nil {
		p.logger.Error().Err(err).Int("page", page).Msg("error fetching assets")
		return err
	}
	p.mu.Lock()
	if appendPage {
		p.assets = append(p.assets, res.Assets...)
	} else {
		p.assets = slices.Clone(res.Assets)
	}
	p.cursor = res.EndCursor
	p.hasNext = res.HasNextPage
	p.total = res.TotalCount
	p.page = page
	n := len(p.assets)
	p.mu.Unlock()
	p.logger.Debug().Int("page", page).Int("fetched", len(res.Assets)).Int("assets", n).Bool("has_next", res.HasNextPage).Msg("page loaded")
	return nil
}
