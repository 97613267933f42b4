// Command recover reads a raw LLM reply from a file or stdin and prints the
// recovered exam answer as JSON.
//
// Usage:
//
//	recover [-repair] [-html] [file]
//
// With -repair the configured LLM is asked once to repair replies that the
// local stages cannot recover; LLM settings come from the environment or .env.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/geegl/studyhelper/core/recovery"
	"github.com/geegl/studyhelper/internal/app"
	"github.com/geegl/studyhelper/internal/config"
	"github.com/geegl/studyhelper/internal/utils"
	"github.com/geegl/studyhelper/providers/ai"
)

type output struct {
	Answer     recovery.Answer     `json:"answer"`
	Confidence recovery.Confidence `json:"confidence,omitempty"`
	Fallback   bool                `json:"fallback"`
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "recover:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("recover", flag.ContinueOnError)
	fs.SetOutput(stderr)
	repair := fs.Bool("repair", false, "ask the configured LLM to repair unrecoverable replies")
	html := fs.Bool("html", false, "convert HTML fragments in field values to Markdown")
	verbose := fs.Bool("v", false, "log each pipeline stage to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	raw, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	cfg.HTMLToMarkdown = *html
	cfg.RepairEnabled = *repair

	var provider ai.Provider
	if *repair {
		if cfg, err = config.Load(); err != nil {
			return err
		}
		cfg.HTMLToMarkdown = *html
		cfg.RepairEnabled = true
		if provider, err = app.NewProvider(ctx, cfg); err != nil {
			return err
		}
		if c, ok := provider.(io.Closer); ok {
			defer func() { _ = c.Close() }()
		}
	}

	pipeline, err := app.NewPipeline(cfg, provider, logger)
	if err != nil {
		return err
	}

	outcome := pipeline.Recover(ctx, raw)
	_, err = fmt.Fprintln(stdout, utils.JSONToString(output{
		Answer:     outcome.Answer(),
		Confidence: outcome.Confidence,
		Fallback:   outcome.Fallback,
	}, true))
	return err
}

func readInput(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
