package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-jobscout/internal/scraper"
	"go-jobscout/internal/sites"
)

func profileWithAge(days int) sites.Profile {
	return sites.Profile{SiteID: "topcv", MaxPostingAgeDays: days}
}

func jobPostedDaysAgo(days int, now time.Time) scraper.Job {
	posted := now.Add(-time.Duration(days) * 24 * time.Hour)
	return scraper.Job{PostedAt: &posted}
}

func TestIsRecent_SiteAwareWindow(t *testing.T) {
	now := time.Now()
	job := jobPostedDaysAgo(20, now)

	//20-day-old job: rejected under a 14-day window...
	assert.False(t, IsRecent(job, profileWithAge(14), now))

	//...accepted under a 124-day window
	assert.True(t, IsRecent(job, profileWithAge(124), now))
}

func TestIsRecent_UnknownDateAlwaysPasses(t *testing.T) {
	//absence of a date is not evidence of staleness
	job := scraper.Job{PostedAt: nil}
	assert.True(t, IsRecent(job, profileWithAge(1), time.Now()))
}

func TestIsRecent_Monotonic(t *testing.T) {
	now := time.Now()
	//a job older than the limit is always rejected, whatever the margin
	for _, days := range []int{15, 30, 90, 365} {
		assert.False(t, IsRecent(jobPostedDaysAgo(days, now), profileWithAge(14), now), "job %d days old", days)
	}
	for _, days := range []int{0, 1, 7, 13} {
		assert.True(t, IsRecent(jobPostedDaysAgo(days, now), profileWithAge(14), now), "job %d days old", days)
	}
}

func TestIsRecent_FutureDateRejected(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * 24 * time.Hour)
	job := scraper.Job{PostedAt: &future}
	assert.False(t, IsRecent(job, profileWithAge(14), now))
}
