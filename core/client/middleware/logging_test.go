package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/geegl/studyhelper/providers/ai"
)

// ========== Test logger helpers ==========

// testLogger creates an slog.Logger that writes to a *bytes.Buffer so tests
// can inspect emitted log lines.
func testLogger(buf *bytes.Buffer) *slog.Logger {
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler)
}

func okSend(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	return &ai.ChatResponse{
		Model:        "test-model",
		Content:      "hello world",
		FinishReason: "stop",
		Usage:        &ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

var testRequest = ai.ChatRequest{
	Model:    "test-model",
	Messages: []ai.Message{{Role: ai.RoleUser, Content: "what is 2+2"}},
}

// ========== Level tests ==========

// TestLoggingMiddleware_Levels verifies which attributes each level emits.
func TestLoggingMiddleware_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		want    []string
		notWant []string
	}{
		{
			name:    "minimal",
			level:   LogLevelMinimal,
			want:    []string{"test-model", "prompt_tokens=10", "total_tokens=15"},
			notWant: []string{"message_count", "finish_reason", "response_content", "what is 2+2"},
		},
		{
			name:    "standard",
			level:   LogLevelStandard,
			want:    []string{"message_count=1", "prompt_length=11", "finish_reason=stop"},
			notWant: []string{"response_content", "what is 2+2"},
		},
		{
			name:  "verbose",
			level: LogLevelVerbose,
			want:  []string{"what is 2+2", "response_content=\"hello world\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			chain := NewLoggingMiddleware(testLogger(buf), tt.level)(okSend)

			if _, err := chain(context.Background(), testRequest); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			output := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(output, s) {
					t.Errorf("expected %q in log, got:\n%s", s, output)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(output, s) {
					t.Errorf("did not expect %q in log, got:\n%s", s, output)
				}
			}
		})
	}
}

// TestLoggingMiddleware_Error verifies failures are logged and returned.
func TestLoggingMiddleware_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	wantErr := errors.New("provider exploded")
	failing := func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) { return nil, wantErr }

	_, err := NewLoggingMiddleware(testLogger(buf), LogLevelStandard)(failing)(context.Background(), testRequest)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !strings.Contains(buf.String(), "llm send failed") || !strings.Contains(buf.String(), "provider exploded") {
		t.Errorf("expected failure entry, got:\n%s", buf.String())
	}
}

// TestLoggingMiddleware_TruncatedReply verifies a warning for replies cut at
// the token limit.
func TestLoggingMiddleware_TruncatedReply(t *testing.T) {
	buf := &bytes.Buffer{}
	cut := func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Model: "m", Content: `{"summary":"cut`, FinishReason: "length"}, nil
	}

	if _, err := NewLoggingMiddleware(testLogger(buf), LogLevelMinimal)(cut)(context.Background(), testRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "token limit") {
		t.Errorf("expected truncation warning, got:\n%s", buf.String())
	}
}

// TestLoggingMiddleware_NilLogger verifies a nil logger falls back to the default.
func TestLoggingMiddleware_NilLogger(t *testing.T) {
	if _, err := NewLoggingMiddleware(nil, LogLevelMinimal)(okSend)(context.Background(), testRequest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
