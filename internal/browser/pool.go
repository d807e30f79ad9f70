package browser

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/playwright-community/playwright-go"
)

// ErrPoolExhausted means an acquire waited past its deadline. Callers
// normally block under contention; only a hard deadline turns the wait
// into an error, terminal for that unit of work.
var ErrPoolExhausted = errors.New("browser context pool exhausted")

// ContextFactory creates an isolated browser context. Satisfied by
// *Manager; tests substitute a stub.
type ContextFactory interface {
	NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error)
}

// ContextPool hands out isolated browser contexts under a fixed
// concurrency ceiling. Each context is single-owner between Acquire
// and Release. Release closes the context but keeps the underlying
// browser engine alive, so repeated acquisitions stay cheap.
type ContextPool struct {
	factory ContextFactory
	tokens  chan struct{}
}

func NewContextPool(factory ContextFactory, capacity int) *ContextPool {
	if capacity <= 0 {
		capacity = 1
	}
	tokens := make(chan struct{}, capacity)
	for i := 0; i < capacity; i++ {
		tokens <- struct{}{}
	}
	return &ContextPool{factory: factory, tokens: tokens}
}

// Acquire blocks until a slot frees up or ctx expires.
func (p *ContextPool) Acquire(ctx context.Context, cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	select {
	case <-p.tokens:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrPoolExhausted, ctx.Err())
	}

	bc, err := p.factory.NewContext(cookies)
	if err != nil {
		p.tokens <- struct{}{}
		return nil, err
	}
	return bc, nil
}

// Release closes the context and frees its slot.
func (p *ContextPool) Release(bc playwright.BrowserContext) {
	if bc != nil {
		if err := bc.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser context: %v", err)
		}
	}
	p.tokens <- struct{}{}
}

func (p *ContextPool) Capacity() int {
	return cap(p.tokens)
}
