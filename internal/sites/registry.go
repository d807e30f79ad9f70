// Per-site scraping profiles.
// Loaded once at startup, read-only afterwards so workers can share
// the registry without locking.

package sites

import (
	"errors"
	"fmt"

	"go-jobscout/internal/config"
)

var ErrUnknownSite = errors.New("unknown site")

type Profile struct {
	SiteID            string
	JobLinkSelector   string
	PopupWaitMs       int
	PopupTimeoutMs    int
	MaxPostingAgeDays int
	NegativeKeywords  []string
	PositiveKeywords  []string
	//Domains the site's job URLs resolve to, used to attribute
	//aggregator results back to their origin board
	Domains []string
}

type Registry struct {
	profiles map[string]Profile
}

// GenericProfile is the fallback for sites without a config block.
// Conservative timings: a slow unknown site should not trip the popup
// timeout on its first redirect hop.
func GenericProfile() Profile {
	return Profile{
		SiteID:            "generic",
		JobLinkSelector:   "a[href*='job'], a[href*='viec-lam']",
		PopupWaitMs:       2500,
		PopupTimeoutMs:    10000,
		MaxPostingAgeDays: 30,
		NegativeKeywords:  []string{"next", "page", "trang", "login", "register", "about"},
		PositiveKeywords:  []string{"developer", "engineer", "lập trình"},
	}
}

func NewRegistry(blocks []config.SiteConfig) *Registry {
	r := &Registry{profiles: make(map[string]Profile, len(blocks))}
	generic := GenericProfile()
	for _, b := range blocks {
		p := Profile{
			SiteID:            b.ID,
			JobLinkSelector:   b.JobLinkSelector,
			PopupWaitMs:       b.PopupWaitMs,
			PopupTimeoutMs:    b.PopupTimeoutMs,
			MaxPostingAgeDays: b.MaxPostingAgeDays,
			NegativeKeywords:  b.NegativeKeywords,
			PositiveKeywords:  b.PositiveKeywords,
			Domains:           b.Domains,
		}
		//fill gaps from the generic profile so a sparse yaml block
		//still yields a usable profile
		if p.JobLinkSelector == "" {
			p.JobLinkSelector = generic.JobLinkSelector
		}
		if p.PopupWaitMs <= 0 {
			p.PopupWaitMs = generic.PopupWaitMs
		}
		if p.PopupTimeoutMs <= 0 {
			p.PopupTimeoutMs = generic.PopupTimeoutMs
		}
		if p.MaxPostingAgeDays <= 0 {
			p.MaxPostingAgeDays = generic.MaxPostingAgeDays
		}
		if len(p.NegativeKeywords) == 0 {
			p.NegativeKeywords = generic.NegativeKeywords
		}
		r.profiles[b.ID] = p
	}
	return r
}

// Get returns the profile for a site id. Callers should fall back to
// GenericProfile() on ErrUnknownSite instead of aborting.
func (r *Registry) Get(siteID string) (Profile, error) {
	p, ok := r.profiles[siteID]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownSite, siteID)
	}
	return p, nil
}

// GetOrGeneric is the common lookup path for scrapers.
func (r *Registry) GetOrGeneric(siteID string) Profile {
	p, err := r.Get(siteID)
	if err != nil {
		return GenericProfile()
	}
	return p
}

func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	return ids
}
