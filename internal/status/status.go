// Readable counters for the operational dashboard: jobs found,
// filtered, deduplicated and failed extractions per scrape unit.

package status

import (
	"sync"
	"sync/atomic"
)

type UnitStats struct {
	found       atomic.Uint64
	filtered    atomic.Uint64
	dedup       atomic.Uint64
	failedExtr  atomic.Uint64
	unitErrors  atomic.Uint64
	usedFallbck atomic.Uint64
}

func (u *UnitStats) IncFound()            { u.found.Add(1) }
func (u *UnitStats) IncFiltered()         { u.filtered.Add(1) }
func (u *UnitStats) IncDeduplicated()     { u.dedup.Add(1) }
func (u *UnitStats) IncFailedExtraction() { u.failedExtr.Add(1) }
func (u *UnitStats) IncError()            { u.unitErrors.Add(1) }
func (u *UnitStats) MarkFallback()        { u.usedFallbck.Store(1) }

type UnitSnapshot struct {
	JobsFound         uint64 `json:"jobs_found"`
	JobsFiltered      uint64 `json:"jobs_filtered"`
	JobsDeduplicated  uint64 `json:"jobs_deduplicated"`
	FailedExtractions uint64 `json:"failed_extractions"`
	Errors            uint64 `json:"errors"`
	UsedFallback      bool   `json:"used_fallback"`
}

type Snapshot struct {
	Units  map[string]UnitSnapshot `json:"units"`
	Totals UnitSnapshot            `json:"totals"`
}

// Tracker owns all counters. Workers get a *UnitStats per scrape unit
// and bump it lock-free; the map itself is guarded.
type Tracker struct {
	mu    sync.Mutex
	units map[string]*UnitStats
}

func NewTracker() *Tracker {
	return &Tracker{units: make(map[string]*UnitStats)}
}

func (t *Tracker) Unit(site, keyword string) *UnitStats {
	key := site + "/" + keyword
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.units[key]
	if !ok {
		u = &UnitStats{}
		t.units[key] = u
	}
	return u
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{Units: make(map[string]UnitSnapshot, len(t.units))}
	for key, u := range t.units {
		us := UnitSnapshot{
			JobsFound:         u.found.Load(),
			JobsFiltered:      u.filtered.Load(),
			JobsDeduplicated:  u.dedup.Load(),
			FailedExtractions: u.failedExtr.Load(),
			Errors:            u.unitErrors.Load(),
			UsedFallback:      u.usedFallbck.Load() == 1,
		}
		snap.Units[key] = us

		snap.Totals.JobsFound += us.JobsFound
		snap.Totals.JobsFiltered += us.JobsFiltered
		snap.Totals.JobsDeduplicated += us.JobsDeduplicated
		snap.Totals.FailedExtractions += us.FailedExtractions
		snap.Totals.Errors += us.Errors
	}
	return snap
}
