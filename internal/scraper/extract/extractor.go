// Click-and-popup extraction state machine.
//
// Job boards that obfuscate application links route the click through a
// popup/new tab which only then settles on the real URL. The machine
// walks Idle → Clicking → AwaitingPopup → ExtractingURL → ClosingPopup
// → Done; Clicking and AwaitingPopup can fail into the terminal Failed
// state. One bad link never stops the remaining candidates on a page.

package extract

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobscout/internal/humanize"
	"go-jobscout/internal/sites"
)

var ErrPopupTimeout = errors.New("popup timeout")

type State string

const (
	StateIdle          State = "idle"
	StateClicking      State = "clicking"
	StateAwaitingPopup State = "awaiting_popup"
	StateExtractingURL State = "extracting_url"
	StateClosingPopup  State = "closing_popup"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Result records where the machine ended up and what it extracted.
type Result struct {
	URL        string
	State      State
	FailReason string
}

type Extractor struct {
	sim     *humanize.Simulator
	profile sites.Profile
}

func NewExtractor(sim *humanize.Simulator, profile sites.Profile) *Extractor {
	return &Extractor{sim: sim, profile: profile}
}

// ExtractURL runs one candidate through the state machine and returns
// the popup's settled URL. A timed-out popup is skipped, not retried:
// hammering one link raises detection risk for marginal yield.
func (e *Extractor) ExtractURL(ctx context.Context, page playwright.Page, cand Candidate) (Result, error) {
	res := Result{State: StateIdle}

	//Idle → Clicking
	if err := e.sim.Sleep(ctx, humanize.DelayPreClick); err != nil {
		return e.fail(&res, cand, "cancelled", err)
	}
	res.State = StateClicking

	//Clicking → AwaitingPopup: ExpectPopup arms the popup listener
	//before the click callback fires, so a fast popup can't slip past
	res.State = StateAwaitingPopup
	popup, err := page.ExpectPopup(func() error {
		return cand.Locator.Click()
	}, playwright.PageExpectPopupOptions{
		Timeout: playwright.Float(float64(e.profile.PopupTimeoutMs)),
	})
	if err != nil {
		if isTimeout(err) {
			return e.fail(&res, cand, "popup_timeout", fmt.Errorf("%w after %dms: %v", ErrPopupTimeout, e.profile.PopupTimeoutMs, err))
		}
		return e.fail(&res, cand, "click_failed", err)
	}

	//AwaitingPopup → ExtractingURL: dwell like a reader would; some
	//sites finish a further client-side redirect after the popup opens
	res.State = StateExtractingURL
	if err := e.sim.Sleep(ctx, humanize.DelayPopupWait); err != nil {
		popup.Close()
		return e.fail(&res, cand, "cancelled", err)
	}

	rawURL := popup.URL()

	//ExtractingURL → ClosingPopup
	res.State = StateClosingPopup
	if err := popup.Close(); err != nil {
		log.Printf("      ⚠️ Failed to close popup: %v", err)
	}

	if err := validateURL(rawURL); err != nil {
		return e.fail(&res, cand, "invalid_url", err)
	}

	//ClosingPopup → Done: the original page stays navigable for the
	//next candidate
	res.State = StateDone
	res.URL = rawURL
	return res, nil
}

// fail logs the candidate for later tuning and returns the terminal
// Failed result. The enclosing scrape unit keeps going.
func (e *Extractor) fail(res *Result, cand Candidate, reason string, err error) (Result, error) {
	res.State = StateFailed
	res.FailReason = reason
	log.Printf("      ❌ Extraction failed (%s) on %q [%s]: %v", reason, cand.Text, e.profile.SiteID, err)
	return *res, err
}

// validateURL rejects empty or scheme-invalid URLs. Extraction failure
// must produce no job at all, never a malformed one.
func validateURL(raw string) error {
	if raw == "" || raw == "about:blank" {
		return fmt.Errorf("popup settled on blank URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("unparseable popup URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unexpected URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("popup URL %q has no host", raw)
	}
	return nil
}

func isTimeout(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
