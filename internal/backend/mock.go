package backend

import (
	"context"
	"sync"
	"time"
)

// MockProcessor is a configurable in-memory Processor for tests and local
// runs without a reachable payment backend.
type MockProcessor struct {
	mu       sync.Mutex
	response *Response
	err      error
	latency  time.Duration

	Calls    int
	Requests []ProcessRequest
}

type MockProcessorOption func(*MockProcessor)

func WithResponse(r *Response) MockProcessorOption {
	return func(p *MockProcessor) { p.response = r }
}

func WithError(err error) MockProcessorOption {
	return func(p *MockProcessor) { p.err = err }
}

func WithLatency(d time.Duration) MockProcessorOption {
	return func(p *MockProcessor) { p.latency = d }
}

func NewMockProcessor(opts ...MockProcessorOption) *MockProcessor {
	p := &MockProcessor{
		response: &Response{Kind: KindRedirect, RedirectURL: "https://pay.example/redirect"},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Process implements Processor.
func (p *MockProcessor) Process(ctx context.Context, req ProcessRequest) (*Response, error) {
	if p.latency > 0 {
		select {
		case <-time.After(p.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls++
	p.Requests = append(p.Requests, req)

	if p.err != nil {
		return nil, p.err
	}
	return p.response, nil
}
