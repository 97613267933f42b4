package ai

import (
	"context"
	"sync"
)

type overviewKey struct{}

// Overview collects every request and response exchanged with providers while
// serving one user request, together with the summed token usage. It is safe
// for concurrent use.
type Overview struct {
	mu         sync.Mutex
	requests   []ChatRequest
	responses  []ChatResponse
	totalUsage Usage
}

// OverviewFromContext returns the Overview stored in ctx, or nil.
func OverviewFromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	overview, _ := ctx.Value(overviewKey{}).(*Overview)
	return overview
}

// ToContext returns a copy of ctx carrying o.
func (o *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, overviewKey{}, o)
}

// AddRequest records an outgoing request.
func (o *Overview) AddRequest(request ChatRequest) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests = append(o.requests, request)
}

// AddResponse records a completed response and adds its usage to the total.
func (o *Overview) AddResponse(response *ChatResponse) {
	if response == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.responses = append(o.responses, *response)
	o.totalUsage.Add(response.Usage)
}

// Calls returns the number of requests recorded so far.
func (o *Overview) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.requests)
}

// TotalUsage returns the summed usage of all recorded responses.
func (o *Overview) TotalUsage() Usage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalUsage
}

// LastResponse returns a copy of the most recent response, or nil.
func (o *Overview) LastResponse() *ChatResponse {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.responses) == 0 {
		return nil
	}
	last := o.responses[len(o.responses)-1]
	return &last
}
