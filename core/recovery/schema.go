package recovery

import (
	"errors"
	"fmt"
)

// Field names of the exam answer record.
const (
	FieldSummary     = "summary"
	FieldAnswer      = "answer"
	FieldExplanation = "explanation"
	FieldAnalysis    = "analysis"
	FieldDerivation  = "derivation"
	FieldPractice    = "practice"
)

// Default diagnostic texts written by the fallback builder.
const (
	DefaultFallbackSummary     = "The model reply could not be formatted automatically"
	DefaultFallbackExplanation = "Automatic formatting and repair both failed, so the original reply is shown unchanged in the derivation section."
)

// Schema describes the record the pipeline produces.
type Schema struct {
	// Fields lists the required field names in display order.
	Fields []string

	// RawField receives the complete raw model output when the fallback is
	// used. Empty means the raw output is dropped.
	RawField string

	// Notices maps field names to the fixed diagnostic text written by the
	// fallback builder. Fields without a notice are left empty.
	Notices map[string]string
}

// DefaultSchema returns the six-field exam answer schema.
func DefaultSchema() Schema {
	return Schema{
		Fields: []string{
			FieldSummary,
			FieldAnswer,
			FieldExplanation,
			FieldAnalysis,
			FieldDerivation,
			FieldPractice,
		},
		RawField: FieldDerivation,
		Notices: map[string]string{
			FieldSummary:     DefaultFallbackSummary,
			FieldExplanation: DefaultFallbackExplanation,
		},
	}
}

// Validate reports whether the schema can be used by a Pipeline.
func (s Schema) Validate() error {
	if len(s.Fields) == 0 {
		return errors.New("recovery: schema has no fields")
	}

	seen := make(map[string]struct{}, len(s.Fields))
	for _, name := range s.Fields {
		if name == "" {
			return errors.New("recovery: schema has an empty field name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("recovery: duplicate schema field %q", name)
		}
		seen[name] = struct{}{}
	}

	if s.RawField != "" && !s.Has(s.RawField) {
		return fmt.Errorf("recovery: raw field %q is not a schema field", s.RawField)
	}
	for name := range s.Notices {
		if !s.Has(name) {
			return fmt.Errorf("recovery: notice field %q is not a schema field", name)
		}
	}

	return nil
}

// Has reports whether name is one of the schema fields.
func (s Schema) Has(name string) bool {
	for _, field := range s.Fields {
		if field == name {
			return true
		}
	}
	return false
}

func (s Schema) clone() Schema {
	out := Schema{
		Fields:   append([]string(nil), s.Fields...),
		RawField: s.RawField,
	}
	if s.Notices != nil {
		out.Notices = make(map[string]string, len(s.Notices))
		for k, v := range s.Notices {
			out.Notices[k] = v
		}
	}
	return out
}
