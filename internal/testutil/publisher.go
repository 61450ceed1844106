package testutil

import (
	"context"
	"sync"
)

// RecordingPublisher records every payload it is asked to publish and
// optionally fails.
type RecordingPublisher struct {
	mu       sync.Mutex
	payloads []any
	Err      error
}

// Publish implements app.Publisher.
func (p *RecordingPublisher) Publish(ctx context.Context, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

// Payloads returns the recorded payloads in publish order.
func (p *RecordingPublisher) Payloads() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.payloads...)
}
