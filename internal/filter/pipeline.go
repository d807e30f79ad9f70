// Post-extraction filter pipeline. Date window runs first, then the
// experience classifier, with deduplication last.

package filter

import (
	"time"

	"go-jobscout/internal/dedup"
	"go-jobscout/internal/scraper"
	"go-jobscout/internal/sites"
)

type Reason string

const (
	ReasonTooOld             Reason = "too_old"
	ReasonExperienceMismatch Reason = "experience_mismatch"
)

// Decision is the pipeline's verdict, attached to the job it judged.
// Duplicates are flagged separately from rejections: they are expected,
// not erroneous, and drop silently.
type Decision struct {
	Passes          bool
	ExperienceLevel Level
	Confidence      float64
	RejectReason    Reason
	Duplicate       bool
}

type Pipeline struct {
	registry *sites.Registry
	deduper  *dedup.Deduper
	//when set, senior-classified jobs are rejected instead of passed
	//through annotated
	entryLevelOnly bool
	now            func() time.Time
}

func NewPipeline(registry *sites.Registry, deduper *dedup.Deduper, entryLevelOnly bool) *Pipeline {
	return &Pipeline{
		registry:       registry,
		deduper:        deduper,
		entryLevelOnly: entryLevelOnly,
		now:            time.Now,
	}
}

// Apply runs one job through all stages. Every returned Decision has
// the experience annotation filled in, pass or fail, so downstream
// consumers never see a job without one.
func (p *Pipeline) Apply(job scraper.Job) Decision {
	profile := p.registry.GetOrGeneric(job.SourceSite)

	level, conf := ClassifyExperience(job.Title, job.Summary)
	d := Decision{ExperienceLevel: level, Confidence: conf}

	if !IsRecent(job, profile, p.now()) {
		d.RejectReason = ReasonTooOld
		return d
	}

	if p.entryLevelOnly && level == LevelSenior {
		d.RejectReason = ReasonExperienceMismatch
		return d
	}

	if p.deduper != nil && p.deduper.IsDuplicate(job) {
		d.Duplicate = true
		return d
	}

	d.Passes = true
	return d
}
