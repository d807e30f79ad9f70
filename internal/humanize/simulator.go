// Human behavior policy: how long to wait, never what to do.
// Keeping page interaction out of this package means the extraction
// state machine stays deterministic in tests (inject zero delays)
// while production runs randomized pacing.

package humanize

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type DelayKind string

const (
	DelayPageLoad    DelayKind = "page_load"
	DelayBetweenJobs DelayKind = "between_jobs"
	DelayPopupWait   DelayKind = "popup_wait"
	DelayPreClick    DelayKind = "pre_click"
)

type delayRange struct {
	minMs int
	maxMs int
}

type Simulator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	ranges     map[DelayKind]delayRange
	sessionDir string
}

// New returns a simulator with production pacing. sessionDir holds
// persisted session cookies per browser context id.
func New(sessionDir string) *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		ranges: map[DelayKind]delayRange{
			DelayPageLoad:    {2000, 5000},
			DelayBetweenJobs: {800, 2500},
			DelayPopupWait:   {1500, 3000},
			DelayPreClick:    {300, 1200},
		},
		sessionDir: sessionDir,
	}
}

// NewZeroDelay returns a simulator that never waits, for tests.
func NewZeroDelay() *Simulator {
	return &Simulator{
		rng:    rand.New(rand.NewSource(1)),
		ranges: map[DelayKind]delayRange{},
	}
}

// Delay returns a randomized duration for the given kind. Callers must
// actually suspend for the returned duration before proceeding.
func (s *Simulator) Delay(kind DelayKind) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ranges[kind]
	if !ok || r.maxMs <= r.minMs {
		return time.Duration(r.minMs) * time.Millisecond
	}
	ms := s.rng.Intn(r.maxMs-r.minMs) + r.minMs
	return time.Duration(ms) * time.Millisecond
}

// Sleep suspends for Delay(kind), cutting short on context cancellation.
func (s *Simulator) Sleep(ctx context.Context, kind DelayKind) error {
	d := s.Delay(kind)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PersistSession stores opaque cookie bytes for a context id.
func (s *Simulator) PersistSession(contextID string, cookies []byte) error {
	if s.sessionDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.sessionDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.sessionPath(contextID), cookies, 0644)
}

// RestoreSession returns previously persisted cookie bytes, or nil when
// no prior session exists. Absence is not an error.
func (s *Simulator) RestoreSession(contextID string) ([]byte, error) {
	if s.sessionDir == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.sessionPath(contextID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Simulator) sessionPath(contextID string) string {
	return filepath.Join(s.sessionDir, "session-"+contextID+".json")
}
