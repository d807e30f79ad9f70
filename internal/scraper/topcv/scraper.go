package topcv

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobscout/internal/browser"
	"go-jobscout/internal/config"
	"go-jobscout/internal/humanize"
	"go-jobscout/internal/scraper"
	"go-jobscout/internal/scraper/extract"
	"go-jobscout/internal/sites"
	"go-jobscout/utils"
)

const siteID = "topcv"

type Scraper struct {
	cfg      *config.Config
	registry *sites.Registry
	sim      *humanize.Simulator
}

func New(cfg *config.Config, registry *sites.Registry, sim *humanize.Simulator) *Scraper {
	return &Scraper{cfg: cfg, registry: registry, sim: sim}
}

func (s *Scraper) Name() string {
	return "TopCV"
}

func (s *Scraper) Scrape(ctx context.Context, page playwright.Page, _, keyword string) ([]scraper.Job, error) {
	var jobs []scraper.Job
	log.Printf("📋 Searching TopCV.vn for %q...", keyword)

	profile := s.registry.GetOrGeneric(siteID)
	screenshotDebugger := utils.NewScreenshotDebugger()

	//warmup phase: land on the homepage first like a real visitor
	log.Println("🏠 Navigating to TopCV Home for warm-up...")
	if _, err := page.Goto("https://www.topcv.vn/", playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		log.Printf("⚠️ Warm-up navigation failed: %v", err)
	}
	if blocked(page) {
		screenshotDebugger.CaptureAndLog(page, "topcv-cloudflare-home", "🚨 TopCV: Blocked by Cloudflare on Homepage")
		return nil, nil
	}
	if err := s.sim.Sleep(ctx, humanize.DelayPageLoad); err != nil {
		return nil, err
	}

	//slugify keyword: "golang developer" -> "golang-developer"
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(keyword)), " ", "-")
	searchURL := fmt.Sprintf("https://www.topcv.vn/tim-viec-lam-%s?sort=new&type_keyword=1", slug)
	log.Printf("  🔍 Searching: %s", keyword)

	page.SetExtraHTTPHeaders(map[string]string{
		"Referer": "https://www.topcv.vn/",
	})

	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", searchURL, err)
	}

	//Cloudflare challenge: wait once, then give up rather than retry
	if blocked(page) {
		log.Println("    🛡️ Cloudflare challenge detected. Waiting 7s...")
		screenshotDebugger.CaptureAndLog(page, "topcv-cloudflare-challenge", "🚨 TopCV: Cloudflare Challenge Detected")
		time.Sleep(7 * time.Second)
		if blocked(page) {
			return nil, fmt.Errorf("cloudflare challenge persisted on %s", searchURL)
		}
	}

	//human behavior before reading the results
	browser.MouseJiggle(page)
	browser.SmoothScroll(page)
	if err := s.sim.Sleep(ctx, humanize.DelayBetweenJobs); err != nil {
		return jobs, err
	}

	//check the empty state to fail fast
	if visible, _ := page.Locator(".none-suitable-job").IsVisible(); visible {
		return jobs, nil
	}

	//dismiss the survey modal when it shows up
	surveyModal := page.Locator("#modal-survey-reliability")
	if visible, _ := surveyModal.IsVisible(); visible {
		log.Println("    ⚠️ Survey modal detected. Closing...")
		page.Locator("#modal-survey-reliability .btn-cancel").Click()
		surveyModal.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateHidden,
			Timeout: playwright.Float(2000),
		})
	}

	cands, err := extract.CollectCandidates(page, profile)
	if err != nil {
		return jobs, fmt.Errorf("error collecting candidates: %w", err)
	}
	cands = extract.SelectCandidates(cands, s.cfg.MaxCandidates)
	log.Printf("    📦 %d candidates after pruning for %q", len(cands), keyword)

	//TopCV exposes real hrefs on its own board, so no popup dance is
	//needed here; the href still goes through the same validation the
	//extractor applies
	for _, cand := range cands {
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}

		rawURL := cand.Href
		if !strings.HasPrefix(rawURL, "http") {
			rawURL = "https://www.topcv.vn" + rawURL
		}
		if idx := strings.Index(rawURL, "?"); idx != -1 {
			rawURL = rawURL[:idx]
		}

		job := scraper.Job{
			SourceSite:           siteID,
			Title:                cand.Text,
			Company:              cand.CardField(".company-name", "a.company"),
			Salary:               cand.CardField(".title-salary", ".salary"),
			Location:             cand.CardField(".address", ".location", ".label-address"),
			Summary:              cand.CardField(".job-description", ".desc"),
			RawURL:               rawURL,
			ExtractionConfidence: 0.7,
			DiscoveredAt:         time.Now(),
		}
		if posted := cand.CardField(".label-update", ".deadline", "time"); posted != "" {
			job.PostedAt = scraper.ParsePostedDate(posted)
		}

		if job.Salary == "" {
			job.Salary = "Negotiable"
		}

		jobs = append(jobs, job)
		log.Printf("      ✅ %s - %s", job.Title, job.Company)

		if err := s.sim.Sleep(ctx, humanize.DelayBetweenJobs); err != nil {
			return jobs, err
		}
	}

	return jobs, nil
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
