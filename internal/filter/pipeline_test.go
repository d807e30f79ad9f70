package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-jobscout/internal/config"
	"go-jobscout/internal/dedup"
	"go-jobscout/internal/scraper"
	"go-jobscout/internal/sites"
)

func testPipeline(t *testing.T, entryOnly bool) *Pipeline {
	t.Helper()
	registry := sites.NewRegistry([]config.SiteConfig{{ID: "topcv", MaxPostingAgeDays: 14}})
	deduper := dedup.NewDeduper(nil)
	return NewPipeline(registry, deduper, entryOnly)
}

func freshJob(title, url string) scraper.Job {
	posted := time.Now().Add(-24 * time.Hour)
	return scraper.Job{
		SourceSite: "topcv",
		Title:      title,
		Company:    "Acme Corp",
		RawURL:     url,
		PostedAt:   &posted,
	}
}

func TestPipeline_PassingJobCarriesAnnotation(t *testing.T) {
	p := testPipeline(t, true)

	d := p.Apply(freshJob("Junior Golang Developer", "https://www.topcv.vn/viec-lam/junior-golang-1111"))
	assert.True(t, d.Passes)
	assert.Equal(t, LevelEntry, d.ExperienceLevel)
	assert.Empty(t, d.RejectReason)
	assert.False(t, d.Duplicate)
}

func TestPipeline_OldJobRejectedButStillAnnotated(t *testing.T) {
	p := testPipeline(t, true)

	job := freshJob("Junior Golang Developer", "https://www.topcv.vn/viec-lam/old-2222")
	old := time.Now().Add(-20 * 24 * time.Hour)
	job.PostedAt = &old

	d := p.Apply(job)
	assert.False(t, d.Passes)
	assert.Equal(t, ReasonTooOld, d.RejectReason)
	//rejected jobs are annotated too
	assert.Equal(t, LevelEntry, d.ExperienceLevel)
}

func TestPipeline_SeniorRejectedOnlyInEntryMode(t *testing.T) {
	job := freshJob("Senior Golang Engineer", "https://www.topcv.vn/viec-lam/senior-3333")

	d := testPipeline(t, true).Apply(job)
	assert.False(t, d.Passes)
	assert.Equal(t, ReasonExperienceMismatch, d.RejectReason)

	//with the flag off the same job passes, annotation intact
	d = testPipeline(t, false).Apply(job)
	assert.True(t, d.Passes)
	assert.Equal(t, LevelSenior, d.ExperienceLevel)
}

func TestPipeline_DuplicateDropsSilently(t *testing.T) {
	p := testPipeline(t, false)
	job := freshJob("Golang Developer", "https://www.topcv.vn/viec-lam/dup-4444")

	first := p.Apply(job)
	assert.True(t, first.Passes)

	second := p.Apply(job)
	assert.False(t, second.Passes)
	assert.True(t, second.Duplicate)
	//a duplicate is not a rejection
	assert.Empty(t, second.RejectReason)
}

func TestPipeline_DedupRunsAfterFilters(t *testing.T) {
	p := testPipeline(t, true)

	//a senior job is rejected before dedup ever sees it, so the same
	//URL is still fresh for a later entry-level posting
	senior := freshJob("Senior Architect", "https://www.topcv.vn/viec-lam/shared-5555")
	assert.False(t, p.Apply(senior).Passes)

	entry := freshJob("Junior Developer", "https://www.topcv.vn/viec-lam/shared-5555")
	d := p.Apply(entry)
	assert.True(t, d.Passes)
	assert.False(t, d.Duplicate)
}
