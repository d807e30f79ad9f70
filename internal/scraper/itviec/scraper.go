package itviec

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
	"go-jobscout/internal/status"
	"go-jobscout/utils"
)

const siteID = "itviec"

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
	return "ITViec"
}

// Scrape clicks each job card to open the detail panel and reads the
// canonical URL from the address bar, ITViec's variant of the
// obfuscated-link pattern.
func (s *Scraper) Scrape(ctx context.Context, page playwright.Page, _, keyword string) ([]scraper.Job, error) {
	var jobs []scraper.Job
	stats := s.tracker.Unit(siteID, keyword)

	profile := s.registry.GetOrGeneric(siteID)

	//Slugify keyword: "golang developer" => "golang-developer"
	keywordSlug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(keyword)), " ", "-")
	searchURL := fmt.Sprintf("https://itviec.com/it-jobs/%s", keywordSlug)
	log.Printf("  🔍 Searching ITViec: %s", keyword)

	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	if err := s.sim.Sleep(ctx, humanize.DelayPageLoad); err != nil {
		return nil, err
	}

	if err := s.handleCloudflare(page); err != nil {
		return nil, err
	}

	//Check empty state
	if visible, _ := page.Locator(`div[data-jobs--filter-target="searchNoInfo"]:not(.d-none)`).IsVisible(); visible {
		log.Printf("    ⚠️ No jobs found (Empty State)")
		return jobs, nil
	}

	page.WaitForSelector("div.job-card", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(3000),
	})
	cards, err := page.Locator("div.job-card").All()
	if err != nil {
		return jobs, fmt.Errorf("error getting job cards: %w", err)
	}
	log.Printf("    📦 Found %d job cards", len(cards))

	limit := s.cfg.MaxCandidates
	if len(cards) < limit {
		limit = len(cards)
	}

	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			return jobs, ctx.Err()
		}

		job, err := s.processJobCard(ctx, page, cards[i], profile)
		if err != nil {
			stats.IncFailedExtraction()
			continue
		}
		jobs = append(jobs, *job)
		log.Printf("      ✅ %s - %s", job.Title, job.Company)
	}

	return jobs, nil
}

// handleCloudflare checks and attempts to solve turnstile
func (s *Scraper) handleCloudflare(page playwright.Page) error {
	title, _ := page.Title()
	if strings.Contains(title, "Attention Required") || strings.Contains(title, "Just a moment") || strings.Contains(title, "Cloudflare") {
		log.Println("    🛡️ Cloudflare challenge detected on ITViec...")
		time.Sleep(3 * time.Second)
	}

	//Find turnstile frame
	var turnstileFrame playwright.Frame
	for _, f := range page.Frames() {
		if strings.Contains(f.URL(), "cloudflare") || strings.Contains(f.Name(), "turnstile") {
			turnstileFrame = f
			break
		}
	}

	if turnstileFrame != nil {
		log.Println("    🤖 Found Cloudflare/Turnstile Frame, checking for checkbox...")
		checkbox := turnstileFrame.Locator(`input[type="checkbox"], .ctp-checkbox-label, #challenge-stage`).First()
		if visible, _ := checkbox.IsVisible(); visible {
			browser.MouseJiggle(page)
			checkbox.Click()
			log.Println("    🖱️ Clicked Turnstile checkbox!")
			time.Sleep(5 * time.Second)
		}
	}

	//final check
	newTitle, _ := page.Title()
	if strings.Contains(newTitle, "Attention Required") || strings.Contains(newTitle, "Cloudflare") {
		utils.NewScreenshotDebugger().CaptureAndLog(page, "itviec-cloudflare-blocked", "🚨 ITViec: Cloudflare Challenge Detected")
		return fmt.Errorf("cloudflare challenge persisted")
	}
	return nil
}

func (s *Scraper) processJobCard(ctx context.Context, page playwright.Page, card playwright.Locator, profile sites.Profile) (*scraper.Job, error) {
	titleEl := card.Locator("h3").First()
	title, err := titleEl.TextContent()
	if err != nil {
		return nil, err
	}

	//prune nav/ad cards before clicking anything
	if extract.Score(strings.TrimSpace(title), "", profile) <= 0 {
		return nil, fmt.Errorf("card pruned by scorer")
	}

	company, _ := card.Locator("a.text-rich-grey, span.text-rich-grey").First().TextContent()
	salary, _ := card.Locator("div.salary span.ips-2").First().TextContent()
	if strings.TrimSpace(salary) == "" {
		salary = "Negotiable"
	}
	location, _ := card.Locator("div.text-rich-grey[title]").Last().TextContent()

	//Click for details
	if err := card.ScrollIntoViewIfNeeded(); err != nil {
		return nil, err
	}
	if err := s.sim.Sleep(ctx, humanize.DelayPreClick); err != nil {
		return nil, err
	}
	if err := card.Click(playwright.LocatorClickOptions{
		Force: playwright.Bool(true),
	}); err != nil {
		return nil, err
	}

	//dwell so the client-side route change settles
	if err := s.sim.Sleep(ctx, humanize.DelayPopupWait); err != nil {
		return nil, err
	}

	//ITViec puts tracking params on the detail URL
	fullURL := page.URL()
	if idx := strings.Index(fullURL, "?"); idx != -1 {
		fullURL = fullURL[:idx]
	}
	if !strings.HasPrefix(fullURL, "http") {
		return nil, fmt.Errorf("detail URL did not resolve: %q", fullURL)
	}

	//get description from the preview panel
	description := ""
	postedText := ""
	detailPanel := page.Locator("div.preview-job-content")
	if visible, _ := detailPanel.IsVisible(playwright.LocatorIsVisibleOptions{
		Timeout: playwright.Float(2000),
	}); visible {
		desc, _ := detailPanel.Locator(".job-description").InnerText(playwright.LocatorInnerTextOptions{
			Timeout: playwright.Float(1500),
		})
		description = desc
		postedText, _ = detailPanel.Locator(".posted-date, time").First().TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(500),
		})
	}

	job := &scraper.Job{
		SourceSite:           siteID,
		Title:                strings.TrimSpace(title),
		Company:              strings.TrimSpace(company),
		RawURL:               fullURL,
		Salary:               strings.TrimSpace(salary),
		Location:             strings.TrimSpace(location),
		Summary:              strings.ReplaceAll(description, "\n", " "),
		ExtractionConfidence: 0.8,
		PostedAt:             scraper.ParsePostedDate(postedText),
		DiscoveredAt:         time.Now(),
	}
	return job, nil
}
