// Careerjet aggregates postings from many boards but hides the origin
// URL behind a click-through popup, so every result goes through the
// click-popup extractor.

package careerjet

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobscout/internal/browser"
	"go-jobscout/internal/config"
	"go-jobscout/internal/humanize"
	"go-jobscout/internal/scraper"
	"go-jobscout/internal/scraper/extract"
	"go-jobscout/internal/sites"
	"go-jobscout/internal/status"
	"go-jobscout/utils"
)

const siteID = "careerjet"

type Scraper struct {
	cfg      *config.Config
	registry *sites.Registry
	sim      *humanize.Simulator
	tracker  *status.Tracker
}

func New(cfg *config.Config, registry *sites.Registry, sim *humanize.Simulator, tracker *status.Tracker) *Scraper {
	return &Scraper{cfg: cfg, registry: registry, sim: sim, tracker: tracker}
}

func (s *Scraper) Name() string {
	return "Careerjet"
}

// Scrape searches the aggregator for one keyword and attributes each
// extracted job back to the target board by popup URL domain. Jobs that
// resolve to a different board are kept too (the filter pipeline and
// dedup handle overlap) but only matches count toward the unit.
func (s *Scraper) Scrape(ctx context.Context, page playwright.Page, targetSiteID, keyword string) ([]scraper.Job, error) {
	var jobs []scraper.Job
	log.Printf("📋 Searching Careerjet for %q (target board: %s)...", keyword, targetSiteID)

	profile := s.registry.GetOrGeneric(siteID)
	target := s.registry.GetOrGeneric(targetSiteID)
	extractor := extract.NewExtractor(s.sim, profile)
	screenshotDebugger := utils.NewScreenshotDebugger()

	for _, location := range s.locations() {
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}

		searchURL := fmt.Sprintf("https://www.careerjet.vn/viec-lam?s=%s&l=%s",
			url.QueryEscape(keyword), url.QueryEscape(location))
		log.Printf("  🔍 Searching: %s - %s", keyword, location)

		if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(30000),
		}); err != nil {
			log.Printf("    ⚠️ Navigation failed: %v", err)
			continue
		}

		if err := s.sim.Sleep(ctx, humanize.DelayPageLoad); err != nil {
			return jobs, err
		}

		//anti-bot check before touching anything
		if blocked(page) {
			screenshotDebugger.CaptureAndLog(page, "careerjet-blocked", "🚨 Careerjet: challenge page detected")
			continue
		}

		//human behavior
		browser.MouseJiggle(page)
		browser.SmoothScroll(page)

		cands, err := extract.CollectCandidates(page, profile)
		if err != nil {
			log.Printf("    ⚠️ Error collecting candidates: %v", err)
			continue
		}
		cands = extract.SelectCandidates(cands, s.cfg.MaxCandidates)
		log.Printf("    📦 %d candidates after pruning", len(cands))

		for _, cand := range cands {
			if ctx.Err() != nil {
				return jobs, ctx.Err()
			}

			res, err := extractor.ExtractURL(ctx, page, cand)
			if err != nil {
				//skip the candidate, keep the unit going
				s.tracker.Unit(targetSiteID, keyword).IncFailedExtraction()
				continue
			}

			job := scraper.Job{
				SourceSite:           siteID,
				Title:                cand.Text,
				Company:              cand.CardField("p.company", ".company", "span.company"),
				Location:             location,
				Salary:               cand.CardField("ul.salary li", ".salary"),
				Summary:              cand.CardField(".desc", "p"),
				RawURL:               res.URL,
				ExtractionConfidence: 0.9,
				DiscoveredAt:         time.Now(),
			}

			if posted := cand.CardField("span.badge-r", ".date", "time"); posted != "" {
				job.PostedAt = scraper.ParsePostedDate(posted)
			}

			//attribute the job to its origin board when the popup
			//resolved to one of the target's domains
			if host := hostOf(res.URL); host != "" && matchesDomain(host, target.Domains) {
				job.SourceSite = targetSiteID
			}

			jobs = append(jobs, job)
			log.Printf("      ✅ %s - %s", job.Title, job.Company)

			if err := s.sim.Sleep(ctx, humanize.DelayBetweenJobs); err != nil {
				return jobs, err
			}
		}
	}

	return jobs, nil
}

func (s *Scraper) locations() []string {
	if len(s.cfg.Locations) > 0 {
		return s.cfg.Locations
	}
	return []string{"Hồ Chí Minh"}
}

func blocked(page playwright.Page) bool {
	title, _ := page.Title()
	for _, marker := range []string{"Attention Required", "Just a moment", "Cloudflare"} {
		if strings.Contains(title, marker) {
			return true
		}
	}
	captchaCount, _ := page.Locator(".captcha, .recaptcha, [data-captcha]").Count()
	return captchaCount > 0
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
