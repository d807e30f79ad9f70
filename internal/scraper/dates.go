package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	relativeRegex = regexp.MustCompile(`(?i)(\d+)\s*(giờ|gio|hour|ngày|ngay|day|tuần|tuan|week|tháng|thang|month)`)
)

// ParsePostedDate turns the posted-date strings job boards display into
// a time, or nil when the text carries no usable date. Callers treat a
// nil date as "unknown", never as stale.
func ParsePostedDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" || dateStr == "N/A" || dateStr == "Recent" {
		return nil
	}

	now := time.Now()

	//Case 1: ISO format "2026-01-27" or 2026-01-27T...
	if isoDateRegex.MatchString(dateStr) {
		if jobDate, err := time.Parse("2006-01-02", dateStr[:10]); err == nil {
			return &jobDate
		}
	}

	//case 2: dd/mm/yyyy
	if strings.Contains(dateStr, "/") {
		parts := strings.Split(dateStr, "/")
		if len(parts) >= 3 {
			day, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
			month, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
			year, _ := strconv.Atoi(strings.TrimSpace(parts[2][:min(4, len(parts[2]))]))
			if day > 0 && month >= 1 && month <= 12 && year > 2000 {
				jobDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
				return &jobDate
			}
		}
	}

	//case 3: relative "3 ngày trước" / "2 hours ago"
	if match := relativeRegex.FindStringSubmatch(dateStr); match != nil {
		n, _ := strconv.Atoi(match[1])
		var d time.Duration
		switch strings.ToLower(match[2]) {
		case "giờ", "gio", "hour":
			d = time.Duration(n) * time.Hour
		case "ngày", "ngay", "day":
			d = time.Duration(n) * 24 * time.Hour
		case "tuần", "tuan", "week":
			d = time.Duration(n) * 7 * 24 * time.Hour
		case "tháng", "thang", "month":
			d = time.Duration(n) * 30 * 24 * time.Hour
		}
		jobDate := now.Add(-d)
		return &jobDate
	}

	return nil
}
