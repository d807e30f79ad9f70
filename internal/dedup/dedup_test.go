package dedup

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobscout/internal/scraper"
)

func TestIsDuplicate_ByURL(t *testing.T) {
	d := NewDeduper(nil)

	job := scraper.Job{SourceSite: "topcv", Title: "Golang Developer", Company: "Acme", RawURL: "https://www.topcv.vn/viec-lam/1111"}
	assert.False(t, d.IsDuplicate(job))
	assert.True(t, d.IsDuplicate(job))
}

func TestIsDuplicate_ByNormalizedTriple(t *testing.T) {
	d := NewDeduper(nil)

	first := scraper.Job{SourceSite: "topcv", Title: "Lập Trình Viên  Golang", Company: "FPT Software", RawURL: "https://www.topcv.vn/viec-lam/1111"}
	assert.False(t, d.IsDuplicate(first))

	//same posting rediscovered under a different URL, title stripped of
	//diacritics and with different casing
	second := scraper.Job{SourceSite: "topcv", Title: "lap trinh vien golang", Company: "fpt software", RawURL: "https://www.topcv.vn/viec-lam/2222"}
	assert.True(t, d.IsDuplicate(second))
}

func TestIsDuplicate_SameTitleDifferentSite(t *testing.T) {
	d := NewDeduper(nil)

	topcv := scraper.Job{SourceSite: "topcv", Title: "Golang Developer", Company: "Acme", RawURL: "https://www.topcv.vn/viec-lam/1111"}
	itviec := scraper.Job{SourceSite: "itviec", Title: "Golang Developer", Company: "Acme", RawURL: "https://itviec.com/it-jobs/2222"}

	assert.False(t, d.IsDuplicate(topcv))
	//the triple includes the site, so cross-site listings both survive
	assert.False(t, d.IsDuplicate(itviec))
}

func TestIsDuplicate_ConcurrentClaim(t *testing.T) {
	d := NewDeduper(nil)
	job := scraper.Job{SourceSite: "topcv", Title: "Golang Developer", Company: "Acme", RawURL: "https://www.topcv.vn/viec-lam/1111"}

	const workers = 16
	fresh := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh <- !d.IsDuplicate(job)
		}()
	}
	wg.Wait()
	close(fresh)

	claims := 0
	for ok := range fresh {
		if ok {
			claims++
		}
	}
	//exactly one worker wins the claim
	assert.Equal(t, 1, claims)
}

func TestJobCache_CrossRunPersistence(t *testing.T) {
	dir := t.TempDir()

	cache := NewJobCache(dir)
	cache.Add([]string{"https://www.topcv.vn/viec-lam/1111"})

	//a second run loads the same file
	reloaded := NewJobCache(dir)
	assert.True(t, reloaded.IsSeen("https://www.topcv.vn/viec-lam/1111"))
	assert.False(t, reloaded.IsSeen("https://www.topcv.vn/viec-lam/2222"))
}

func TestDeduper_ChecksPersistentCache(t *testing.T) {
	dir := t.TempDir()
	cache := NewJobCache(dir)
	cache.Add([]string{"https://www.topcv.vn/viec-lam/1111"})

	d := NewDeduper(cache)
	job := scraper.Job{SourceSite: "topcv", Title: "Golang Developer", Company: "Acme", RawURL: "https://www.topcv.vn/viec-lam/1111"}
	assert.True(t, d.IsDuplicate(job), "URL accepted in a previous run is a duplicate")
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "lap trinh vien golang", normalizeKey("Lập  Trình Viên   Golang"))
	assert.Equal(t, normalizeKey("FPT Software"), normalizeKey("fpt   software"))
}
