package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_UnitCountersIsolated(t *testing.T) {
	tr := NewTracker()

	tr.Unit("topcv", "golang").IncFound()
	tr.Unit("topcv", "golang").IncFound()
	tr.Unit("itviec", "golang").IncFiltered()

	snap := tr.Snapshot()
	assert.Equal(t, uint64(2), snap.Units["topcv/golang"].JobsFound)
	assert.Equal(t, uint64(0), snap.Units["topcv/golang"].JobsFiltered)
	assert.Equal(t, uint64(1), snap.Units["itviec/golang"].JobsFiltered)
}

func TestTracker_Totals(t *testing.T) {
	tr := NewTracker()

	tr.Unit("topcv", "golang").IncFound()
	tr.Unit("itviec", "golang").IncFound()
	tr.Unit("itviec", "golang").IncDeduplicated()
	tr.Unit("itviec", "java").IncFailedExtraction()
	tr.Unit("topcv", "java").IncError()

	snap := tr.Snapshot()
	assert.Equal(t, uint64(2), snap.Totals.JobsFound)
	assert.Equal(t, uint64(1), snap.Totals.JobsDeduplicated)
	assert.Equal(t, uint64(1), snap.Totals.FailedExtractions)
	assert.Equal(t, uint64(1), snap.Totals.Errors)
}

func TestTracker_FallbackFlag(t *testing.T) {
	tr := NewTracker()

	tr.Unit("topcv", "golang").MarkFallback()
	tr.Unit("topcv", "golang").MarkFallback()

	snap := tr.Snapshot()
	assert.True(t, snap.Units["topcv/golang"].UsedFallback)
	assert.False(t, snap.Units["itviec/golang"].UsedFallback)
}

func TestTracker_ConcurrentIncrements(t *testing.T) {
	tr := NewTracker()

	const workers, perWorker = 8, 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := tr.Unit("topcv", "golang")
			for j := 0; j < perWorker; j++ {
				u.IncFound()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(workers*perWorker), tr.Snapshot().Units["topcv/golang"].JobsFound)
}
