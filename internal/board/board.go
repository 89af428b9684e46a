// Package board owns the current quote snapshot: it orchestrates
// fetch and extract for every tracked symbol and publishes one
// internally consistent snapshot per refresh cycle.
package board

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tickerboard/internal/extract"
	"tickerboard/internal/feed"
	"tickerboard/internal/quote"
)

// Field markers scanned out of the upstream session summary.
const (
	markerPrice     = `"regularMarketPrice":`
	markerPrevClose = `"regularMarketPreviousClose":`
	markerState     = `"marketState":`
	marketStateOpen = "REGULAR"
)

// Repository refreshes and holds the snapshot for a fixed ordered
// symbol list. Symbols are fetched one at a time; pacing between
// fetches comes from the Source the repository is built with.
type Repository struct {
	symbols []quote.Symbol
	source  feed.Source
	log     *zap.Logger

	sf singleflight.Group

	mu  sync.RWMutex
	cur quote.Snapshot
}

func New(symbols []quote.Symbol, source feed.Source, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Repository{
		symbols: append([]quote.Symbol(nil), symbols...),
		source:  source,
		log:     log,
	}
	r.cur.Entries = make([]quote.Entry, len(symbols))
	for i, sym := range r.symbols {
		r.cur.Entries[i].Symbol = sym
	}
	return r
}

// Current returns the last published snapshot without refreshing.
func (r *Repository) Current() quote.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// Refresh polls every symbol, assembles a fresh snapshot and publishes
// it wholesale. The returned flag is true only when every fetch
// succeeded. A failed symbol keeps its prior cycle's quote: resetting
// to zero would falsely render as flat and mislead the viewer.
// Concurrent callers are coalesced into a single upstream poll.
func (r *Repository) Refresh(ctx context.Context) (quote.Snapshot, bool) {
	type result struct {
		snap quote.Snapshot
		ok   bool
	}
	v, _, _ := r.sf.Do("refresh", func() (any, error) {
		snap, ok := r.refresh(ctx)
		return result{snap, ok}, nil
	})
	res := v.(result)
	return res.snap, res.ok
}

func (r *Repository) refresh(ctx context.Context) (quote.Snapshot, bool) {
	prior := r.Current()
	next := quote.Snapshot{
		Entries: make([]quote.Entry, len(r.symbols)),
		Taken:   time.Now(),
	}
	allOK := true

	for i, sym := range r.symbols {
		next.Entries[i].Symbol = sym

		body, err := r.source.Fetch(ctx, sym.ID)
		if err != nil {
			allOK = false
			if prev, found := prior.Lookup(sym.ID); found {
				next.Entries[i].Quote = prev.Quote
			}
			r.log.Warn("symbol refresh failed, keeping prior quote",
				zap.String("symbol", sym.ID), zap.Error(err))
			continue
		}

		scale := sym.Scale
		if scale == 0 {
			scale = 1
		}
		q := quote.Quote{
			Current:       extract.Field(body, markerPrice) * scale,
			PreviousClose: extract.Field(body, markerPrevClose) * scale,
			MarketOpen:    extract.Text(body, markerState) == marketStateOpen,
		}
		q.PercentageChange = quote.ChangePercent(q.Current, q.PreviousClose)
		next.Entries[i].Quote = q

		r.log.Info("symbol refreshed",
			zap.String("symbol", sym.ID),
			zap.Float64("current", q.Current),
			zap.Float64("previous_close", q.PreviousClose),
			zap.Float64("change_pct", q.PercentageChange),
			zap.Bool("market_open", q.MarketOpen))
	}

	r.mu.Lock()
	r.cur = next
	r.mu.Unlock()
	return next, allOK
}
