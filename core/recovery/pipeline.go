package recovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/geegl/studyhelper/internal/utils"
)

// logPreviewLength bounds the raw text copied into log entries.
const logPreviewLength = 200

// Pipeline recovers schema records from model replies. A Pipeline is
// immutable after New and safe for concurrent use.
type Pipeline struct {
	schema         Schema
	notices        map[string]string
	extract        func(string) string
	repairer       Repairer
	libraryRepair  bool
	htmlToMarkdown bool
	logger         *slog.Logger
}

// New returns a Pipeline for the default exam answer schema, modified by opts.
// It fails only when the configured schema is invalid.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		schema:        DefaultSchema(),
		extract:       ExtractBalanced,
		libraryRepair: true,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notices != nil {
		p.schema.Notices = p.notices
		p.notices = nil
	}

	if err := p.schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid recovery schema: %w", err)
	}

	return p, nil
}

// Schema returns a copy of the pipeline schema.
func (p *Pipeline) Schema() Schema {
	return p.schema.clone()
}

// Recover runs the full cascade on raw and always returns a complete record:
// every schema field is present. ctx is only used by the repair stage.
func (p *Pipeline) Recover(ctx context.Context, raw string) Outcome {
	if record, confidence, ok := p.recoverLocal(raw); ok {
		return p.recovered(record, confidence)
	}

	if p.repairer != nil {
		if record, ok := p.secondaryRepair(ctx, raw); ok {
			return p.recovered(record, ConfidenceSecondaryRepair)
		}
	}

	p.logger.Warn("Structured recovery failed, using fallback record",
		slog.Int("raw_length", len(raw)),
		slog.String("raw_preview", utils.TruncateString(raw, logPreviewLength)),
	)

	return Outcome{
		Record:   BuildFallback(p.schema, raw),
		Fallback: true,
	}
}

// recoverLocal runs every stage that needs no collaborator.
func (p *Pipeline) recoverLocal(raw string) (Record, Confidence, bool) {
	candidate := p.extract(raw)
	candidates := []string{candidate}
	if naive := Extract(raw); naive != candidate {
		candidates = append(candidates, naive)
	}

	for _, c := range candidates {
		if obj, ok := p.parse(c); ok {
			return Coerce(p.schema, obj), ConfidenceDirect, true
		}
		if obj, ok := p.parse(Sanitize(c)); ok {
			return Coerce(p.schema, obj), ConfidenceSanitized, true
		}
	}
	p.logger.Debug("Direct and sanitized parse failed", slog.Int("candidates", len(candidates)))

	if rescued := rescueTruncated(raw); rescued != "" {
		if obj, ok := p.parse(rescued); ok {
			return Coerce(p.schema, obj), ConfidenceRescued, true
		}
		p.logger.Debug("Truncation rescue failed")
	}

	if p.libraryRepair {
		if repaired, ok := repairWithLibrary(candidate); ok {
			if obj, ok := p.parse(repaired); ok {
				return Coerce(p.schema, obj), ConfidenceRepaired, true
			}
		}
		p.logger.Debug("Library repair failed")
	}

	return nil, "", false
}

// parse returns the object in text when it carries at least one schema
// field. Anything else, including the {} a rescue makes of prose ending in a
// brace, counts as a failed stage so the raw text can reach the fallback.
func (p *Pipeline) parse(text string) (Value, bool) {
	obj, ok := ParseObject(text)
	if !ok {
		return Value{}, false
	}
	for _, name := range p.schema.Fields {
		if _, ok := obj.Get(name); ok {
			return obj, true
		}
	}
	return Value{}, false
}

// secondaryRepair makes the single repair call allowed per reply and runs
// the local stages on its output.
func (p *Pipeline) secondaryRepair(ctx context.Context, raw string) (Record, bool) {
	repaired, err := p.callRepairer(ctx, raw)
	if err != nil {
		p.logger.Warn("Secondary repair failed", slog.String("error", err.Error()))
		return nil, false
	}

	record, _, ok := p.recoverLocal(repaired)
	if !ok {
		p.logger.Warn("Secondary repair output is not a JSON object",
			slog.String("output_preview", utils.TruncateString(repaired, logPreviewLength)),
		)
		return nil, false
	}

	return record, true
}

func (p *Pipeline) callRepairer(ctx context.Context, raw string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("repairer panicked: %v", r)
		}
	}()
	return p.repairer.Repair(ctx, raw)
}

// recovered fills the fields the model left out and applies the optional
// HTML conversion.
func (p *Pipeline) recovered(record Record, confidence Confidence) Outcome {
	for _, name := range p.schema.Fields {
		value := record[name]
		if p.htmlToMarkdown {
			value = HTMLToMarkdown(value)
		}
		record[name] = value
	}

	p.logger.Debug("Recovered structured reply", slog.String("confidence", string(confidence)))

	return Outcome{Record: record, Confidence: confidence}
}

// repairWithLibrary runs jsonrepair over the sanitized candidate.
func repairWithLibrary(candidate string) (out string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			out, ok = "", false
		}
	}()

	text := fromFirstBrace(Sanitize(candidate))
	if strings.TrimSpace(text) == "" || tooDeep(text) {
		return "", false
	}

	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return "", false
	}
	return repaired, true
}

// RecoverAnswer recovers an exam Answer from raw with the default pipeline
// and no secondary repair.
func RecoverAnswer(raw string) Answer {
	p, err := New(WithLogger(slog.New(slog.DiscardHandler)))
	if err != nil {
		return AnswerFromRecord(BuildFallback(DefaultSchema(), raw))
	}
	return p.Recover(context.Background(), raw).Answer()
}
