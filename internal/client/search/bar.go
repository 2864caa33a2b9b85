// Package search implements the search control that sits next to a listing.
// It fetches results and hands them to the listing as a wholesale
// replacement; it never reads the listing back.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/shalo/internal/client/listing"
	"github.com/dmitrijs2005/shalo/internal/client/models"
	"github.com/dmitrijs2005/shalo/internal/client/notify"
	"github.com/dmitrijs2005/shalo/internal/common"
	"github.com/dmitrijs2005/shalo/internal/logging"
)

// Searcher is the part of the resource API the bar needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Resource, error)
	ListAll(ctx context.Context) ([]models.Resource, error)
}

// Sink receives replacements. *listing.Reconciler satisfies it.
type Sink interface {
	Begin() listing.Ticket
	Commit(t listing.Ticket, items []models.Resource) bool
	End(t listing.Ticket)
}

type Bar struct {
	api      Searcher
	sink     Sink
	notifier notify.Notifier
	logger   logging.Logger

	inflight atomic.Int32
}

func NewBar(api Searcher, sink Sink, notifier notify.Notifier, logger logging.Logger) *Bar {
	if notifier == nil {
		notifier = notify.Nop()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Bar{
		api:      api,
		sink:     sink,
		notifier: notifier,
		logger:   logger.With("component", "search"),
	}
}

// Submit runs the query and replaces the listing with its results. A blank
// query lists every resource instead. On failure the listing is left alone
// and the error is both notified and returned.
func (b *Bar) Submit(ctx context.Context, query string) error {
	b.inflight.Add(1)
	defer b.inflight.Add(-1)

	t := b.sink.Begin()
	defer b.sink.End(t)

	query = strings.TrimSpace(query)

	var (
		results []models.Resource
		err     error
	)
	if query == "" {
		results, err = b.api.ListAll(ctx)
	} else {
		results, err = b.api.Search(ctx, query)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", common.ErrSearchFailed, err)
		b.logger.Warn(ctx, "search failed", "query", query, "error", err)
		b.notifier.Notify(ctx, err)
		return err
	}

	if !b.sink.Commit(t, results) {
		b.logger.Debug(ctx, "discarded stale search results", "query", query)
		return nil
	}
	b.logger.Debug(ctx, "search applied", "query", query, "results", len(results))
	return nil
}

// Loading reports whether a search is in flight.
func (b *Bar) Loading() bool {
	return b.inflight.Load() > 0
}
