// Persistence sinks for the filtered job stream. A sink write failure
// is never fatal to the scrape: the orchestrator logs and continues.

package sink

import (
	"context"

	"go-jobscout/internal/filter"
	"go-jobscout/internal/scraper"
)

type Sink interface {
	//Put persists one job with its filter decision, returning the
	//stored job's id
	Put(ctx context.Context, job scraper.Job, decision filter.Decision) (string, error)

	Close(ctx context.Context) error
}
