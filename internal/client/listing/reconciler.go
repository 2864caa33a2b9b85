package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/client/notify"
	"github.com/dmitrijs2005/shalo/internal/common"
	"github.com/dmitrijs2005/shalo/internal/logging"
)

// FetchFunc produces a baseline item set.
type FetchFunc func(ctx context.Context) ([]models.Resource, error)

// Ticket identifies one replacement request. Later tickets are larger.
type Ticket uint64

// State is a point-in-time copy of the listing.
type State struct {
	Items      []models.Resource
	Page       int
	PageSize   int
	TotalPages int
	Loading    bool
}

type Reconciler struct {
	logger   logging.Logger
	notifier notify.Notifier
	pageSize int

	mu       sync.RWMutex
	items    []models.Resource
	page     int
	inflight int
	issued   Ticket
	applied  Ticket
}

type Option func(*Reconciler)

func WithLogger(l logging.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

func WithNotifier(n notify.Notifier) Option {
	return func(r *Reconciler) { r.notifier = n }
}

// New returns an empty listing. A pageSize below 1 is treated as 1.
func New(pageSize int, opts ...Option) *Reconciler {
	if pageSize < 1 {
		pageSize = 1
	}
	r := &Reconciler{
		logger:   logging.Nop(),
		notifier: notify.Nop(),
		pageSize: pageSize,
		items:    []models.Resource{},
		page:     1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadDefault fetches the baseline collection and replaces the items with it.
//
// On failure the items and page are left as they were, the error is logged
// and handed to the notifier. The error is also returned, but callers are not
// expected to act on it. The loading flag is released on every path.
func (r *Reconciler) LoadDefault(ctx context.Context, fetch FetchFunc) error {
	t := r.Begin()
	defer r.End(t)

	items, err := fetch(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", common.ErrListingFailed, err)
		r.logger.Warn(ctx, "keeping previous listing", "error", err)
		r.notifier.Notify(ctx, err)
		return err
	}

	if !r.Commit(t, items) {
		r.logger.Debug(ctx, "discarded stale listing", "ticket", uint64(t))
	}
	return nil
}

// ApplySearch replaces the items with an already fetched result set.
func (r *Reconciler) ApplySearch(results []models.Resource) {
	t := r.Begin()
	defer r.End(t)
	r.Commit(t, results)
}

// Begin reserves a ticket for a replacement that is about to be fetched and
// marks the listing as loading until the matching End.
func (r *Reconciler) Begin() Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	r.inflight++
	return r.issued
}

// Commit replaces the items and resets the page to 1, unless a replacement
// with a newer ticket has already been committed. It reports whether the
// items were applied.
func (r *Reconciler) Commit(t Ticket, items []models.Resource) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t <= r.applied {
		return false
	}
	r.applied = t
	r.items = append(make([]models.Resource, 0, len(items)), items...)
	r.page = 1
	return true
}

// End releases the loading hold taken by Begin.
func (r *Reconciler) End(Ticket) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight > 0 {
		r.inflight--
	}
}

// SetPage moves to page n, clamped into [1, TotalPages()].
func (r *Reconciler) SetPage(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page = clamp(n, 1, r.totalPagesLocked())
	return r.page
}

func (r *Reconciler) NextPage() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page = clamp(r.page+1, 1, r.totalPagesLocked())
	return r.page
}

func (r *Reconciler) PrevPage() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page = clamp(r.page-1, 1, r.totalPagesLocked())
	return r.page
}

// CurrentSlice returns a copy of the items on the current page.
func (r *Reconciler) CurrentSlice() []models.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sliceLocked()
}

func (r *Reconciler) Page() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.page
}

func (r *Reconciler) PageSize() int { return r.pageSize }

func (r *Reconciler) TotalPages() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.totalPagesLocked()
}

func (r *Reconciler) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *Reconciler) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inflight > 0
}

func (r *Reconciler) Snapshot() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{
		Items:      append([]models.Resource(nil), r.items...),
		Page:       r.page,
		PageSize:   r.pageSize,
		TotalPages: r.totalPagesLocked(),
		Loading:    r.inflight > 0,
	}
}

func (r *Reconciler) sliceLocked() []models.Resource {
	start := (r.page - 1) * r.pageSize
	end := min(start+r.pageSize, len(r.items))
	if start >= end {
		return []models.Resource{}
	}
	return append([]models.Resource(nil), r.items[start:end]...)
}

func (r *Reconciler) totalPagesLocked() int {
	return max(1, (len(r.items)+r.pageSize-1)/r.pageSize)
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
