package recovery

import "log/slog"

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSchema sets the record schema. The default is DefaultSchema.
func WithSchema(schema Schema) Option {
	return func(p *Pipeline) {
		p.schema = schema.clone()
	}
}

// WithExtractor replaces the candidate extractor. The default is
// ExtractBalanced; pass Extract for the plain first-to-last brace span.
func WithExtractor(extract func(string) string) Option {
	return func(p *Pipeline) {
		if extract != nil {
			p.extract = extract
		}
	}
}

// WithRepairer enables the secondary repair stage.
func WithRepairer(r Repairer) Option {
	return func(p *Pipeline) {
		p.repairer = r
	}
}

// WithLibraryRepair toggles the jsonrepair stage. It is on by default.
func WithLibraryRepair(enabled bool) Option {
	return func(p *Pipeline) {
		p.libraryRepair = enabled
	}
}

// WithHTMLToMarkdown converts HTML found in recovered fields to Markdown.
// It is off by default. Fallback records are never converted.
func WithHTMLToMarkdown(enabled bool) Option {
	return func(p *Pipeline) {
		p.htmlToMarkdown = enabled
	}
}

// WithLogger sets the logger used for stage diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFallbackNotices replaces the diagnostic texts written into fallback
// records. Keys must be schema fields.
func WithFallbackNotices(notices map[string]string) Option {
	return func(p *Pipeline) {
		p.notices = make(map[string]string, len(notices))
		for k, v := range notices {
			p.notices[k] = v
		}
	}
}
