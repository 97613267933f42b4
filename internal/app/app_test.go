package app

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/geegl/studyhelper/core/client"
	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/core/solve"
	"github.com/geegl/studyhelper/internal/config"
	"github.com/geegl/studyhelper/providers/ai"
	"github.com/geegl/studyhelper/providers/history/inmemory"
)

const cleanReply = `{"summary":"S","answer":"C","explanation":"E","analysis":"A","derivation":"D","practice":"P"}`

type recordingProvider struct {
	mu       sync.Mutex
	reply    string
	requests []ai.ChatRequest
}

func (p *recordingProvider) Name() string { return "recording" }

func (p *recordingProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, request)
	return &ai.ChatResponse{Content: p.reply}, nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.LLMAPIKey = "k"
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TestNewProvider verifies provider selection.
func TestNewProvider(t *testing.T) {
	cfg := testConfig()
	p, err := NewProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("expected openai provider, got %q", p.Name())
	}

	cfg.LLMProvider = "unknown"
	if _, err := NewProvider(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	cfg = testConfig()
	cfg.LLMAPIKey = ""
	if _, err := NewProvider(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

// TestPrimaryClientOptions verifies model, prompt and temperature of the
// question client.
func TestPrimaryClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.LLMModel = "primary-model"
	cfg.LLMTemperature = 0.4

	provider := &recordingProvider{reply: cleanReply}
	c, err := client.New(provider, PrimaryClientOptions(cfg, discardLogger())...)
	if err != nil {
		t.Fatalf("client.New returned error: %v", err)
	}
	if _, err := c.SendMessage(context.Background(), "q"); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	request := provider.requests[0]
	if request.Model != "primary-model" {
		t.Errorf("expected primary-model, got %q", request.Model)
	}
	if request.SystemPrompt != solve.SystemPrompt {
		t.Error("expected the exam system prompt")
	}
	if got := *request.GenerationConfig.Temperature; got != 0.4 {
		t.Errorf("expected temperature 0.4, got %v", got)
	}
}

// TestNewPipeline_Repair verifies the repair stage follows RepairEnabled.
func TestNewPipeline_Repair(t *testing.T) {
	tests := []struct {
		name         string
		enabled      bool
		wantFallback bool
	}{
		{"enabled", true, false},
		{"disabled", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.RepairEnabled = tt.enabled
			cfg.LLMModel = "main"
			cfg.RepairModel = "cheap"
			provider := &recordingProvider{reply: cleanReply}

			pipeline, err := NewPipeline(cfg, provider, discardLogger())
			if err != nil {
				t.Fatalf("NewPipeline returned error: %v", err)
			}

			outcome := pipeline.Recover(context.Background(), "no json at all")
			if outcome.Fallback != tt.wantFallback {
				t.Fatalf("expected fallback=%v, got %+v", tt.wantFallback, outcome)
			}
			if tt.enabled {
				if len(provider.requests) != 1 || provider.requests[0].Model != "cheap" {
					t.Fatalf("expected one repair call on the repair model, got %+v", provider.requests)
				}
				if outcome.Confidence != recovery.ConfidenceSecondaryRepair {
					t.Fatalf("expected secondary-repair, got %q", outcome.Confidence)
				}
			} else if len(provider.requests) != 0 {
				t.Fatalf("expected no provider calls, got %d", len(provider.requests))
			}
		})
	}
}

// TestRepairClientOptions_ModelFallback verifies the primary model is reused
// when no repair model is set.
func TestRepairClientOptions_ModelFallback(t *testing.T) {
	cfg := testConfig()
	cfg.LLMModel = "main"
	cfg.LLMTimeout = time.Second

	provider := &recordingProvider{reply: cleanReply}
	c, err := client.New(provider, RepairClientOptions(cfg, discardLogger())...)
	if err != nil {
		t.Fatalf("client.New returned error: %v", err)
	}
	if c.DefaultModel() != "main" {
		t.Fatalf("expected main, got %q", c.DefaultModel())
	}
}

// TestOpenStore_InMemory verifies the fallback store without DATABASE_URL.
func TestOpenStore_InMemory(t *testing.T) {
	store, closeStore, err := OpenStore(context.Background(), testConfig(), discardLogger())
	if err != nil {
		t.Fatalf("OpenStore returned error: %v", err)
	}
	defer closeStore()
	if _, ok := store.(*inmemory.Store); !ok {
		t.Fatalf("expected in-memory store, got %T", store)
	}
}

// TestOpenStore_InvalidURL verifies a malformed DATABASE_URL is reported.
func TestOpenStore_InvalidURL(t *testing.T) {
	cfg := testConfig()
	cfg.DatabaseURL = "postgres://%zz"
	if _, _, err := OpenStore(context.Background(), cfg, discardLogger()); err == nil {
		t.Fatal("expected error for malformed DATABASE_URL")
	}
}

// TestBuild verifies the full wiring without a database.
func TestBuild(t *testing.T) {
	a, err := Build(context.Background(), testConfig(), discardLogger())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	defer a.Close()

	if a.Provider == nil || a.Pipeline == nil || a.Solver == nil || a.Store == nil {
		t.Fatalf("expected every component, got %+v", a)
	}
}
