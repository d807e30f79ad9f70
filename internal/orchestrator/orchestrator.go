// Dual-tier scrape orchestration. Each (site, keyword) unit runs the
// primary aggregator first; when that under-delivers or errors, the
// site-specific fallback runs exactly once for the same unit. The two
// tiers never run concurrently, to avoid doubling load on one target.

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/playwright-community/playwright-go"
	"golang.org/x/sync/errgroup"

	"go-jobscout/internal/browser"
	"go-jobscout/internal/filter"
	"go-jobscout/internal/humanize"
	"go-jobscout/internal/scraper"
	"go-jobscout/internal/sink"
	"go-jobscout/internal/status"
)

var (
	ErrPrimaryScraper  = errors.New("primary scraper failed")
	ErrFallbackScraper = errors.New("fallback scraper failed")
)

// Unit is one (site, keyword) pair driving a single browser context's
// lifetime. Counts are monotonic and feed the fallback threshold.
type Unit struct {
	Site    string
	Keyword string

	found   atomic.Int64
	skipped atomic.Int64
}

func (u *Unit) Found() int64 { return u.found.Load() }

func (u *Unit) key() string { return u.Site + "/" + u.Keyword }

type Orchestrator struct {
	primary   scraper.Scraper
	fallbacks map[string]scraper.Scraper

	primaryPool  *browser.ContextPool
	fallbackPool *browser.ContextPool

	sim      *humanize.Simulator
	pipeline *filter.Pipeline
	sink     sink.Sink
	tracker  *status.Tracker

	threshold   int
	unitTimeout time.Duration
}

func New(
	primary scraper.Scraper,
	fallbacks map[string]scraper.Scraper,
	primaryPool, fallbackPool *browser.ContextPool,
	sim *humanize.Simulator,
	pipeline *filter.Pipeline,
	snk sink.Sink,
	tracker *status.Tracker,
	threshold int,
	unitTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		primary:      primary,
		fallbacks:    fallbacks,
		primaryPool:  primaryPool,
		fallbackPool: fallbackPool,
		sim:          sim,
		pipeline:     pipeline,
		sink:         snk,
		tracker:      tracker,
		threshold:    threshold,
		unitTimeout:  unitTimeout,
	}
}

// Run fans units out across workers bounded by the pools. Unit failures
// are recorded in the tracker and never abort the run: it always
// terminates with whatever jobs were successfully extracted.
func (o *Orchestrator) Run(ctx context.Context, units []*Unit) []scraper.Job {
	var mu sync.Mutex
	var accepted []scraper.Job

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.primaryPool.Capacity() + o.fallbackPool.Capacity())

	for _, unit := range units {
		unit := unit
		g.Go(func() error {
			jobs, err := o.runUnit(gctx, unit)
			if err != nil {
				log.Printf("❌ Unit %s finished with error: %v (keeping %d partial results)", unit.key(), err, len(jobs))
				o.tracker.Unit(unit.Site, unit.Keyword).IncError()
			}
			mu.Lock()
			accepted = append(accepted, jobs...)
			mu.Unlock()
			//unit errors are recorded, not propagated: one bad unit
			//must not cancel its siblings
			return nil
		})
	}

	g.Wait()
	return accepted
}

// runUnit runs one unit end to end: primary tier, threshold check,
// fallback tier, filter pipeline, sink. Returned jobs already passed
// the pipeline.
func (o *Orchestrator) runUnit(ctx context.Context, unit *Unit) ([]scraper.Job, error) {
	unitCtx, cancel := context.WithTimeout(ctx, o.unitTimeout)
	defer cancel()

	stats := o.tracker.Unit(unit.Site, unit.Keyword)
	log.Printf("\n▶️ Starting unit %s", unit.key())

	raw, primaryErr := o.runTier(unitCtx, o.primary, o.primaryPool, unit)
	if primaryErr != nil {
		primaryErr = fmt.Errorf("%w: %v", ErrPrimaryScraper, primaryErr)
		log.Printf("  ⚠️ %v", primaryErr)
	}

	matched := countForSite(raw, unit.Site)

	//fallback fires on under-delivery or primary failure, exactly once
	if primaryErr != nil || matched < int64(o.threshold) {
		fb, ok := o.fallbacks[unit.Site]
		if !ok {
			log.Printf("  ℹ️ No fallback scraper registered for %s", unit.Site)
			return o.finish(unitCtx, unit, raw, primaryErr)
		}

		stats.MarkFallback()
		log.Printf("  🔁 Primary delivered %d (< %d), falling back to %s", matched, o.threshold, fb.Name())

		fbJobs, fbErr := o.runTier(unitCtx, fb, o.fallbackPool, unit)
		raw = append(raw, fbJobs...)
		if fbErr != nil {
			//terminal for the unit: surface partial results plus the error
			return o.mustFinish(unitCtx, unit, raw), fmt.Errorf("%w: %v", ErrFallbackScraper, fbErr)
		}
	}

	return o.finish(unitCtx, unit, raw, nil)
}

// runTier acquires a context from the tier's pool, restores any prior
// session, scrapes, then persists the session and releases the context.
func (o *Orchestrator) runTier(ctx context.Context, s scraper.Scraper, pool *browser.ContextPool, unit *Unit) ([]scraper.Job, error) {
	sessionID := s.Name() + "-" + unit.Site

	var cookies []playwright.OptionalCookie
	if data, err := o.sim.RestoreSession(sessionID); err == nil && data != nil {
		if decoded, err := browser.DecodeCookies(data); err == nil {
			cookies = decoded
			log.Printf("  🍪 Restored %d cookies for %s", len(decoded), sessionID)
		}
	}

	bc, err := pool.Acquire(ctx, cookies)
	if err != nil {
		return nil, err
	}
	defer pool.Release(bc)

	page, err := bc.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	jobs, scrapeErr := s.Scrape(ctx, page, unit.Site, unit.Keyword)
	unit.found.Add(int64(len(jobs)))

	if data, err := browser.EncodeCookies(bc); err == nil {
		if err := o.sim.PersistSession(sessionID, data); err != nil {
			log.Printf("  ⚠️ Failed to persist session %s: %v", sessionID, err)
		}
	}

	return jobs, scrapeErr
}

// finish pushes raw jobs through the filter pipeline and the sink.
func (o *Orchestrator) finish(ctx context.Context, unit *Unit, raw []scraper.Job, tierErr error) ([]scraper.Job, error) {
	return o.mustFinish(ctx, unit, raw), tierErr
}

func (o *Orchestrator) mustFinish(ctx context.Context, unit *Unit, raw []scraper.Job) []scraper.Job {
	stats := o.tracker.Unit(unit.Site, unit.Keyword)
	var accepted []scraper.Job

	for _, job := range raw {
		stats.IncFound()
		decision := o.pipeline.Apply(job)

		switch {
		case decision.Duplicate:
			unit.skipped.Add(1)
			stats.IncDeduplicated()
			continue
		case !decision.Passes:
			unit.skipped.Add(1)
			stats.IncFiltered()
			log.Printf("  🚫 Rejected (%s): %s", decision.RejectReason, job.Title)
			continue
		}

		//storage outages must not stop discovery
		if _, err := o.sink.Put(ctx, job, decision); err != nil {
			log.Printf("  ⚠️ Sink write failed for %q: %v", job.Title, err)
		}

		accepted = append(accepted, job)
	}

	log.Printf("  ✅ Unit %s: %d found, %d accepted", unit.key(), len(raw), len(accepted))
	return accepted
}

func countForSite(jobs []scraper.Job, site string) int64 {
	var n int64
	for _, j := range jobs {
		if j.SourceSite == site {
			n++
		}
	}
	return n
}
