package filter

import (
	"regexp"
	"strings"
)

type Level string

const (
	LevelEntry   Level = "entry"
	LevelMid     Level = "mid"
	LevelSenior  Level = "senior"
	LevelUnknown Level = "unknown"
)

var (
	entryRegex  = regexp.MustCompile(`(?i)\b(fresher|intern|junior|entry[\s-]?level|graduate|trainee|associate|no\s+experience|0\s*-\s*2\s*years?)\b`)
	seniorRegex = regexp.MustCompile(`(?i)\b(senior|lead|manager|principal|staff|architect|head\s+of|([5-9]|\d{2,})\s*(\+|plus)?\s*(năm|nam|years?|yoe))\b`)
	midRegex    = regexp.MustCompile(`(?i)\b(mid[\s-]?level|middle|intermediate|[2-4]\s*(\+|plus)?\s*(năm|nam|years?|yoe))\b`)
)

// ClassifyExperience scans title + summary for level markers and returns
// the level with a confidence in [0,1]. When both entry and senior
// markers hit (or neither does), the answer is unknown with confidence
// at most 0.5, which reads as "needs manual review" downstream.
func ClassifyExperience(title, summary string) (Level, float64) {
	text := strings.ToLower(title + " " + summary)

	entryHits := len(entryRegex.FindAllString(text, -1))
	seniorHits := len(seniorRegex.FindAllString(text, -1))
	midHits := len(midRegex.FindAllString(text, -1))

	switch {
	case entryHits > 0 && seniorHits > 0:
		//"Senior-friendly team welcomes junior applicants"
		return LevelUnknown, 0.3
	case entryHits > 0:
		return LevelEntry, confidence(entryHits)
	case seniorHits > 0:
		return LevelSenior, confidence(seniorHits)
	case midHits > 0:
		return LevelMid, confidence(midHits)
	default:
		return LevelUnknown, 0.5
	}
}

func confidence(hits int) float64 {
	c := 0.7 + 0.15*float64(hits)
	if c > 0.95 {
		c = 0.95
	}
	return c
}
