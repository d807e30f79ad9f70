package extract

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"go-jobscout/internal/sites"
)

// Candidate is an ephemeral handle to a page element plus its score.
// It lives for a single extraction pass and is never persisted.
type Candidate struct {
	Locator playwright.Locator
	Text    string
	Href    string
	Score   int
	//Index is the element's DOM position, the deterministic tie-break
	Index int
	//CardHTML is the surrounding listing card, for company/date parsing
	CardHTML string
}

// CollectCandidates gathers and scores every element matching the
// profile's link selector, in DOM order.
func CollectCandidates(page playwright.Page, profile sites.Profile) ([]Candidate, error) {
	locators, err := page.Locator(profile.JobLinkSelector).All()
	if err != nil {
		return nil, err
	}

	cands := make([]Candidate, 0, len(locators))
	for i, loc := range locators {
		text, err := loc.TextContent(playwright.LocatorTextContentOptions{
			Timeout: playwright.Float(1000),
		})
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		href, _ := loc.GetAttribute("href")

		cand := Candidate{
			Locator: loc,
			Text:    text,
			Href:    href,
			Index:   i,
			Score:   Score(text, href, profile),
		}

		//capture the enclosing card once so later parsing doesn't
		//need more locator round-trips
		if card, err := loc.Locator("xpath=ancestor::*[self::article or self::li][1]").First().InnerHTML(playwright.LocatorInnerHTMLOptions{
			Timeout: playwright.Float(500),
		}); err == nil {
			cand.CardHTML = card
		}

		cands = append(cands, cand)
	}

	log.Printf("    🔗 Collected %d candidate links (%d scored above floor)", len(cands), len(SelectCandidates(cands, 0)))
	return cands, nil
}

// CardField pulls the first matching selector's text out of a
// candidate's card HTML.
func (c Candidate) CardField(selectors ...string) string {
	if c.CardHTML == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.CardHTML))
	if err != nil {
		return ""
	}
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
