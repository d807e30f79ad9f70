package topcv

import (
	"context"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"

	"go-jobscout/internal/config"
	"go-jobscout/internal/humanize"
	"go-jobscout/internal/sites"
)

//helper start mock browser
func setupPlaywright(t *testing.T) (*playwright.Playwright, playwright.Browser, playwright.Page) {
	t.Helper()
	pw, err := playwright.Run()
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		pw.Stop()
		t.Skipf("could not launch browser: %v", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return pw, browser, page
}

func testConfig() *config.Config {
	return &config.Config{
		Keywords:      []string{"golang"},
		MaxCandidates: 20,
		Sites: []config.SiteConfig{{
			ID:               "topcv",
			JobLinkSelector:  "h3.title a",
			PositiveKeywords: []string{"developer", "engineer"},
			NegativeKeywords: []string{"next", "page"},
		}},
	}
}

func TestScrape_CloudflareBlockOnWarmup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	mockHTML := `<html><head><title>Attention Required! | Cloudflare</title></head><body><h1>Please verify you are a human</h1></body></html>`

	//route all requests back to the mock challenge page
	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status: playwright.Int(200),
			Body:   mockHTML,
		})
	})

	cfg := testConfig()
	s := New(cfg, sites.NewRegistry(cfg.Sites), humanize.NewZeroDelay())

	jobs, err := s.Scrape(context.Background(), page, "topcv", "golang")

	assert.NoError(t, err)
	assert.Empty(t, jobs, "blocked warm-up must yield no jobs")
}

func TestScrape_ParsesListingFromMockedSearchPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	homeHTML := `<html><head><title>TopCV</title></head><body><h1>Home</h1></body></html>`
	listingHTML := `<html><head><title>Tuyển dụng golang</title></head><body>
		<ul>
			<li class="job-item">
				<h3 class="title"><a href="/viec-lam/junior-golang-developer-1234567.html?utm_source=x">Junior Golang Developer</a></h3>
				<span class="company-name">FPT Software</span>
				<span class="title-salary">15 - 20 triệu</span>
				<span class="address">Hồ Chí Minh</span>
				<span class="label-update">3 ngày trước</span>
			</li>
			<li class="job-item">
				<h3 class="title"><a href="/tim-viec-lam?page=2">Next Page</a></h3>
			</li>
		</ul>
	</body></html>`

	page.Route("**/*", func(route playwright.Route) {
		body := homeHTML
		if strings.Contains(route.Request().URL(), "tim-viec-lam-") {
			body = listingHTML
		}
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        body,
		})
	})

	cfg := testConfig()
	s := New(cfg, sites.NewRegistry(cfg.Sites), humanize.NewZeroDelay())

	jobs, err := s.Scrape(context.Background(), page, "topcv", "golang")

	assert.NoError(t, err)
	if assert.Len(t, jobs, 1, "pagination link must be pruned by the scorer") {
		job := jobs[0]
		assert.Equal(t, "Junior Golang Developer", job.Title)
		assert.Equal(t, "FPT Software", job.Company)
		//tracking params stripped, host prefixed
		assert.Equal(t, "https://www.topcv.vn/viec-lam/junior-golang-developer-1234567.html", job.RawURL)
		assert.NotNil(t, job.PostedAt)
	}
}
