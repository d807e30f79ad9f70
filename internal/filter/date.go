package filter

import (
	"time"

	"go-jobscout/internal/scraper"
	"go-jobscout/internal/sites"
)

// IsRecent applies the site's posting-age window. A job with no date
// passes: absence of a date is not evidence of staleness.
func IsRecent(job scraper.Job, profile sites.Profile, now time.Time) bool {
	if job.PostedAt == nil {
		return true
	}

	age := now.Sub(*job.PostedAt)
	if age > time.Duration(profile.MaxPostingAgeDays)*24*time.Hour {
		return false
	}

	//reject future dates beyond 2 days (timezone issues)
	if age < -2*24*time.Hour {
		return false
	}
	return true
}
