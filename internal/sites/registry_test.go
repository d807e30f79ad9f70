package sites

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobscout/internal/config"
)

func TestRegistry_Get_UnknownSite(t *testing.T) {
	r := NewRegistry([]config.SiteConfig{{ID: "topcv"}})

	_, err := r.Get("monster")
	assert.True(t, errors.Is(err, ErrUnknownSite))

	//callers fall back to the generic profile instead of aborting
	p := r.GetOrGeneric("monster")
	assert.Equal(t, "generic", p.SiteID)
	assert.Greater(t, p.PopupTimeoutMs, 0)
}

func TestRegistry_DefaultsFillSparseBlocks(t *testing.T) {
	r := NewRegistry([]config.SiteConfig{{
		ID:             "topcv",
		PopupWaitMs:    1500,
		PositiveKeywords: []string{"developer"},
	}})

	p, err := r.Get("topcv")
	assert.NoError(t, err)
	assert.Equal(t, 1500, p.PopupWaitMs)
	//unset fields come from the generic profile
	assert.Equal(t, GenericProfile().PopupTimeoutMs, p.PopupTimeoutMs)
	assert.Equal(t, GenericProfile().MaxPostingAgeDays, p.MaxPostingAgeDays)
	assert.NotEmpty(t, p.NegativeKeywords)
}

func TestRegistry_ProfilesAreValueCopies(t *testing.T) {
	r := NewRegistry([]config.SiteConfig{{ID: "topcv", PopupWaitMs: 1000}})

	p1, _ := r.Get("topcv")
	p1.PopupWaitMs = 9999

	p2, _ := r.Get("topcv")
	assert.Equal(t, 1000, p2.PopupWaitMs, "mutating a returned profile must not affect the registry")
}
