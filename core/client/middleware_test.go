package client

import (
	"context"
	"errors"
	"testing"

	"github.com/geegl/studyhelper/providers/ai"
)

// ========== Chain construction helpers ==========

// callRecorder records whether a middleware was invoked and in what order.
type callRecorder struct {
	order  *[]string
	name   string
	called bool
}

func newCallRecorder(name string, sharedOrder *[]string) *callRecorder {
	return &callRecorder{order: sharedOrder, name: name}
}

func (rec *callRecorder) middleware() Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			rec.called = true
			*rec.order = append(*rec.order, rec.name)

			return next(ctx, request)
		}
	}
}

// ========== buildSendChain tests ==========

// TestBuildSendChain_EmptyMiddlewares verifies that an empty slice results in a
// direct provider call.
func TestBuildSendChain_EmptyMiddlewares(t *testing.T) {
	chain := buildSendChain(&mockProvider{}, nil)

	resp, err := chain(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Content != "test response" {
		t.Errorf("expected 'test response', got %q", resp.Content)
	}
}

// TestBuildSendChain_MultipleMiddlewares verifies outermost-first execution order.
func TestBuildSendChain_MultipleMiddlewares(t *testing.T) {
	order := []string{}
	rec1 := newCallRecorder("mw1", &order)
	rec2 := newCallRecorder("mw2", &order)
	rec3 := newCallRecorder("mw3", &order)

	chain := buildSendChain(&mockProvider{}, []Middleware{
		rec1.middleware(),
		rec2.middleware(),
		rec3.middleware(),
	})

	if _, err := chain(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"mw1", "mw2", "mw3"}
	if len(order) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(order), order)
	}

	for i, name := range expected {
		if order[i] != name {
			t.Errorf("position %d: expected %q, got %q", i, name, order[i])
		}
	}
}

// TestBuildSendChain_ShortCircuit verifies that a middleware can return early
// without calling next.
func TestBuildSendChain_ShortCircuit(t *testing.T) {
	provider := &mockProvider{}
	shortCircuitError := errors.New("short-circuit")

	shortCircuit := Middleware(func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			return nil, shortCircuitError
		}
	})

	order := []string{}
	rec := newCallRecorder("after-short-circuit", &order)

	chain := buildSendChain(provider, []Middleware{shortCircuit, rec.middleware()})

	if _, err := chain(context.Background(), ai.ChatRequest{}); !errors.Is(err, shortCircuitError) {
		t.Fatalf("expected short-circuit error, got %v", err)
	}

	if rec.called {
		t.Error("middleware after short-circuit should not be called")
	}
	if len(provider.requests) != 0 {
		t.Error("provider should not be called after short-circuit")
	}
}

// TestBuildSendChain_RequestRewrite verifies a middleware can change the request.
func TestBuildSendChain_RequestRewrite(t *testing.T) {
	provider := &mockProvider{}
	rewrite := Middleware(func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			request.Model = "rewritten"
			return next(ctx, request)
		}
	})

	chain := buildSendChain(provider, []Middleware{rewrite})
	if _, err := chain(context.Background(), ai.ChatRequest{Model: "original"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := provider.lastRequest(t).Model; got != "rewritten" {
		t.Errorf("expected rewritten model, got %q", got)
	}
}

// ========== WithMiddleware client option tests ==========

// TestWithMiddleware_ClientCallsChain verifies that SendMessage routes through
// the middleware chain when one is configured.
func TestWithMiddleware_ClientCallsChain(t *testing.T) {
	order := []string{}
	rec := newCallRecorder("mw", &order)

	c, err := New(&mockProvider{}, WithMiddleware(rec.middleware(), nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if !rec.called {
		t.Error("expected middleware to be called on SendMessage")
	}
}

// TestWithMiddleware_Accumulates verifies repeated options append in order.
func TestWithMiddleware_Accumulates(t *testing.T) {
	order := []string{}
	a := newCallRecorder("a", &order)
	b := newCallRecorder("b", &order)

	c, _ := New(&mockProvider{}, WithMiddleware(a.middleware()), WithMiddleware(b.middleware()))
	if _, err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("unexpected order %v", order)
	}
}
