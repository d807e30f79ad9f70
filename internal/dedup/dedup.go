// In-run and cross-run deduplication. The in-run set is the only
// mutable structure shared across workers, so it lives behind a
// thread-safe set instead of ambient globals.

package dedup

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"go-jobscout/internal/scraper"
)

type Deduper struct {
	seen  mapset.Set[string]
	cache *JobCache
}

func NewDeduper(cache *JobCache) *Deduper {
	return &Deduper{
		seen:  mapset.NewSet[string](),
		cache: cache,
	}
}

// IsDuplicate reports whether the job's normalized (title, company,
// site) triple or raw URL was already accepted, and marks both keys.
// Check-and-mark is atomic per key so concurrent workers can't both
// claim the same job.
func (d *Deduper) IsDuplicate(job scraper.Job) bool {
	urlKey := "u|" + job.RawURL
	tripleKey := "t|" + normalizeKey(job.Title) + "|" + normalizeKey(job.Company) + "|" + job.SourceSite

	//Add returns false when the key was already present
	urlFresh := d.seen.Add(urlKey)
	tripleFresh := d.seen.Add(tripleKey)
	if !urlFresh || !tripleFresh {
		return true
	}

	if d.cache != nil && d.cache.IsSeen(job.RawURL) {
		return true
	}
	return false
}

// MarkPersisted records accepted URLs in the cross-run cache.
func (d *Deduper) MarkPersisted(urls []string) {
	if d.cache != nil {
		d.cache.Add(urls)
	}
}

// normalizeKey lowercases, strips diacritics and collapses whitespace
// so "Lập Trình Viên  Golang" and "lap trinh vien golang" dedupe.
func normalizeKey(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.Join(strings.Fields(strings.ToLower(result)), " ")
}

// ---------------- persistent cross-run cache ----------------

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

type JobCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
}

const thirtyDaysMs = int64(30 * 24 * 60 * 60 * 1000)

// NewJobCache creates or loads a job cache
func NewJobCache(cacheDir string) *JobCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &JobCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

// IsSeen checks if a URL was accepted in a previous run
func (jc *JobCache) IsSeen(url string) bool {
	jc.mu.Lock()
	defer jc.mu.Unlock()
	_, exists := jc.seen[url]
	return exists
}

func (jc *JobCache) Add(urls []string) {
	jc.mu.Lock()
	defer jc.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := jc.seen[url]; !exists {
			jc.seen[url] = now
			changed = true
		}
	}

	if changed {
		jc.save()
	}
}

// load reads the cache from disk, dropping entries older than 30 days
func (jc *JobCache) load() {
	data, err := os.ReadFile(jc.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	thirtyDaysAgo := time.Now().UnixMilli() - thirtyDaysMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > thirtyDaysAgo {
			jc.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

// save writes the current cache to disk
func (jc *JobCache) save() {
	entries := make([]seenEntry, 0, len(jc.seen))
	for url, ts := range jc.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(jc.filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
