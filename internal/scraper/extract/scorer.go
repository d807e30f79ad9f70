// Scores candidate links so pagination/ad noise gets pruned before the
// expensive (and detection-risky) click path ever runs.

package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-jobscout/internal/sites"
)

const (
	positiveWeight = 2
	negativeWeight = 3
	hrefShapeBonus = 1
	//links scoring at or below the floor never reach the browser
	rejectionFloor = 0
)

var (
	//job-detail URLs carry a numeric id or a long slug segment;
	//navigation URLs are query-only or single short segments
	jobDetailHrefRegex = regexp.MustCompile(`(?i)(/[a-z0-9%-]*\d{4,}|/[a-z0-9%]+(?:-[a-z0-9%]+){2,})`)
	queryOnlyHrefRegex = regexp.MustCompile(`(?i)^[^?]*\?(?:page|p|sort|trang)=`)
)

func normalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// Score is a pure function: identical inputs always produce the same
// score. Higher means more likely a genuine posting.
func Score(linkText, linkHref string, profile sites.Profile) int {
	text := normalizeText(linkText)
	score := 0

	for _, kw := range profile.PositiveKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, normalizeText(kw)) {
			score += positiveWeight
		}
	}

	for _, kw := range profile.NegativeKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, normalizeText(kw)) {
			score -= negativeWeight
		}
	}

	if jobDetailHrefRegex.MatchString(linkHref) && !queryOnlyHrefRegex.MatchString(linkHref) {
		score += hrefShapeBonus
	}

	return score
}

// SelectCandidates prunes candidates at or below the rejection floor,
// caps the survivors at limit (best scores first, DOM order breaking
// ties), and returns them in DOM order so extraction is deterministic
// for a given page snapshot.
func SelectCandidates(cands []Candidate, limit int) []Candidate {
	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Score > rejectionFloor {
			kept = append(kept, c)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Index < kept[j].Index
	})

	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].Index < kept[j].Index
	})

	return kept
}
