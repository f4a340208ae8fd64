package ui

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/twistedxcom/resume-deck/internal/logging"
	"github.com/twistedxcom/resume-deck/internal/session"
)

var prefetchLog = logging.ForComponent(logging.CompPrefetch)

// Worker pool sizes. Summary extraction needs a full parse and is strictly
// more expensive than the head-only metadata read, so it gets fewer workers.
const (
	metaWorkers    = 8
	summaryWorkers = 3
)

// fetchResult is one background completion, tagged with the generation it
// was fetched under. The update loop discards results whose generation is
// no longer current and writes the rest into the cache; workers never
// touch the cache themselves.
type fetchResult struct {
	gen     uint64
	path    string
	meta    *session.Meta
	summary *session.Summary
	err     error
}

// Prefetcher populates metadata and summaries for the visible page with
// bounded worker pools. Each pool claims indices from a shared cursor;
// changing page bumps the generation counter, which outstanding workers
// check before fetching and before delivering, so an abandoned page's
// fetches cannot land under the new generation.
type Prefetcher struct {
	quickMeta func(session.FileRef) (session.Meta, error)
	fullParse func(string) ([]session.DialogTurn, error)

	// parseGroup deduplicates concurrent full parses of the same log
	// (summary prefetch racing an on-demand preview).
	parseGroup singleflight.Group

	gen     atomic.Uint64
	results chan fetchResult
}

// NewPrefetcher wires the prefetcher to its fetch collaborators.
func NewPrefetcher(
	quickMeta func(session.FileRef) (session.Meta, error),
	fullParse func(string) ([]session.DialogTurn, error),
) *Prefetcher {
	return &Prefetcher{
		quickMeta: quickMeta,
		fullParse: fullParse,
		results:   make(chan fetchResult, 256),
	}
}

// StartPage abandons any in-flight page and starts worker pools for the
// given unfetched items. Returns the new generation; results carrying an
// older generation must be discarded by the consumer.
func (p *Prefetcher) StartPage(metaItems, summaryItems []session.FileRef) uint64 {
	gen := p.gen.Add(1)

	metaCursor := &atomic.Int64{}
	for i := 0; i < metaWorkers && i < len(metaItems); i++ {
		go p.metaWorker(gen, metaItems, metaCursor)
	}

	summaryCursor := &atomic.Int64{}
	for i := 0; i < summaryWorkers && i < len(summaryItems); i++ {
		go p.summaryWorker(gen, summaryItems, summaryCursor)
	}

	return gen
}

// Stop invalidates all outstanding work. Workers notice on their next
// liveness check and exit without delivering.
func (p *Prefetcher) Stop() {
	p.gen.Add(1)
}

// Generation returns the current prefetch generation.
func (p *Prefetcher) Generation() uint64 {
	return p.gen.Load()
}

// Results is the completion stream the picker listens on.
func (p *Prefetcher) Results() <-chan fetchResult {
	return p.results
}

// ParseTurns runs a deduplicated full parse of one log.
func (p *Prefetcher) ParseTurns(path string) ([]session.DialogTurn, error) {
	v, err, _ := p.parseGroup.Do(path, func() (interface{}, error) {
		return p.fullParse(path)
	})
	if err != nil {
		return nil, err
	}
	turns, _ := v.([]session.DialogTurn)
	return turns, nil
}

func (p *Prefetcher) metaWorker(gen uint64, items []session.FileRef, cursor *atomic.Int64) {
	for {
		if p.gen.Load() != gen {
			return
		}
		idx := int(cursor.Add(1)) - 1
		if idx >= len(items) {
			return
		}
		ref := items[idx]
		meta, err := p.quickMeta(ref)
		if err != nil {
			prefetchLog.Debug("meta_fetch_failed",
				slog.String("path", ref.Path), slog.String("error", err.Error()))
		}
		p.deliver(fetchResult{gen: gen, path: ref.Path, meta: &meta, err: err})
	}
}

func (p *Prefetcher) summaryWorker(gen uint64, items []session.FileRef, cursor *atomic.Int64) {
	for {
		if p.gen.Load() != gen {
			return
		}
		idx := int(cursor.Add(1)) - 1
		if idx >= len(items) {
			return
		}
		ref := items[idx]
		turns, err := p.ParseTurns(ref.Path)
		if err != nil {
			prefetchLog.Debug("summary_fetch_failed",
				slog.String("path", ref.Path), slog.String("error", err.Error()))
			p.deliver(fetchResult{gen: gen, path: ref.Path, err: err})
			continue
		}
		sum := session.Summarize(turns)
		p.deliver(fetchResult{gen: gen, path: ref.Path, summary: &sum})
	}
}

// deliver hands a result to the consumer unless the generation moved on.
// A full channel drops the result; the row simply stays unloaded and is
// re-requested on the next page visit.
func (p *Prefetcher) deliver(res fetchResult) {
	if p.gen.Load() != res.gen {
		return
	}
	select {
	case p.results <- res:
	default:
		prefetchLog.Debug("result_channel_full", slog.String("path", res.path))
	}
}
