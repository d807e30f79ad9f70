package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobscout/internal/humanize"
	"go-jobscout/internal/sites"
)

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

func popupProfile(timeoutMs int) sites.Profile {
	p := sites.GenericProfile()
	p.SiteID = "careerjet"
	p.PopupTimeoutMs = timeoutMs
	return p
}

func TestExtractURL_PopupResolvesToOriginURL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	listingHTML := `<html><body>
		<a id="job" href="https://www.topcv.vn/viec-lam/golang-developer-1234567.html" target="_blank">Golang Developer</a>
	</body></html>`

	//route on the context so the popup's own navigation is mocked too
	page.Context().Route("**/*", func(route playwright.Route) {
		body := listingHTML
		if strings.Contains(route.Request().URL(), "topcv.vn") {
			body = `<html><body><h1>Job detail</h1></body></html>`
		}
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        body,
		})
	})
	_, err := page.Goto("https://www.careerjet.vn/viec-lam?s=golang")
	require.NoError(t, err)

	extractor := NewExtractor(humanize.NewZeroDelay(), popupProfile(5000))
	cand := Candidate{Locator: page.Locator("#job"), Text: "Golang Developer"}

	res, err := extractor.ExtractURL(context.Background(), page, cand)

	require.NoError(t, err)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, "https://www.topcv.vn/viec-lam/golang-developer-1234567.html", res.URL)

	//the listing page must stay usable for the next candidate
	visible, err := page.Locator("#job").IsVisible()
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestExtractURL_NoPopupTimesOut(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	pw, browser, page := setupPlaywright(t)
	defer pw.Stop()
	defer browser.Close()

	//the link navigates nowhere and opens no popup
	listingHTML := `<html><body>
		<a id="dead" href="javascript:void(0)">Golang Developer</a>
	</body></html>`

	page.Route("**/*", func(route playwright.Route) {
		route.Fulfill(playwright.RouteFulfillOptions{
			Status:      playwright.Int(200),
			ContentType: playwright.String("text/html"),
			Body:        listingHTML,
		})
	})
	_, err := page.Goto("https://www.careerjet.vn/viec-lam?s=golang")
	require.NoError(t, err)

	extractor := NewExtractor(humanize.NewZeroDelay(), popupProfile(500))
	cand := Candidate{Locator: page.Locator("#dead"), Text: "Golang Developer"}

	res, err := extractor.ExtractURL(context.Background(), page, cand)

	assert.ErrorIs(t, err, ErrPopupTimeout)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, "popup_timeout", res.FailReason)
	assert.Empty(t, res.URL)
}
