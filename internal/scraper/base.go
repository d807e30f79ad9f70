// Define an interface for all scrapers
// Ensure consistency

package scraper

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
)

type Job struct {
	SourceSite string
	Title      string
	Company    string
	RawURL     string
	Location   string
	Salary     string
	Summary    string
	//ExtractionConfidence reflects how directly the URL was obtained:
	//popup resolution scores higher than a plain href
	ExtractionConfidence float64
	PostedAt             *time.Time
	DiscoveredAt         time.Time
}

//Scraper defines the interface that all platform scrapers must implement
type Scraper interface {
	//Scrape jobs for one (site, keyword) unit using the given page
	Scrape(ctx context.Context, page playwright.Page, siteID, keyword string) ([]Job, error)

	//Name is the platform name (Careerjet, TopCV, ...)
	Name() string
}
