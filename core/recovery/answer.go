package recovery

// Confidence names the stage that produced a recovered record.
type Confidence string

const (
	// ConfidenceDirect means the extracted candidate parsed as-is.
	ConfidenceDirect Confidence = "direct"
	// ConfidenceSanitized means the candidate parsed after Sanitize.
	ConfidenceSanitized Confidence = "sanitized"
	// ConfidenceRescued means a truncated reply parsed once its tail was closed.
	ConfidenceRescued Confidence = "rescued"
	// ConfidenceRepaired means the candidate parsed after the jsonrepair pass.
	ConfidenceRepaired Confidence = "repaired"
	// ConfidenceSecondaryRepair means the Repairer output parsed.
	ConfidenceSecondaryRepair Confidence = "secondary-repair"
)

// Record maps schema field names to their string values.
type Record map[string]string

// Clone returns an independent copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Answer is the structured explanation of one exam question. Every field is
// Markdown source that may contain LaTeX.
type Answer struct {
	Summary     string `json:"summary"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	Analysis    string `json:"analysis"`
	Derivation  string `json:"derivation"`
	Practice    string `json:"practice"`
}

// AnswerFromRecord reads the six exam answer fields from r. Missing fields
// become empty strings.
func AnswerFromRecord(r Record) Answer {
	return Answer{
		Summary:     r[FieldSummary],
		Answer:      r[FieldAnswer],
		Explanation: r[FieldExplanation],
		Analysis:    r[FieldAnalysis],
		Derivation:  r[FieldDerivation],
		Practice:    r[FieldPractice],
	}
}

// Record returns a as a Record keyed by the default schema field names.
func (a Answer) Record() Record {
	return Record{
		FieldSummary:     a.Summary,
		FieldAnswer:      a.Answer,
		FieldExplanation: a.Explanation,
		FieldAnalysis:    a.Analysis,
		FieldDerivation:  a.Derivation,
		FieldPractice:    a.Practice,
	}
}

// Outcome is the result of one pipeline run. Exactly one of two cases holds:
// Fallback is false and Confidence names the recovering stage, or Fallback is
// true, Confidence is empty and Record is the fallback record.
type Outcome struct {
	Record     Record
	Confidence Confidence
	Fallback   bool
}

// Recovered reports whether structured recovery succeeded.
func (o Outcome) Recovered() bool {
	return !o.Fallback
}

// Answer returns the record as an exam Answer.
func (o Outcome) Answer() Answer {
	return AnswerFromRecord(o.Record)
}

// Stage returns the confidence, or "fallback" when the fallback was used.
func (o Outcome) Stage() string {
	if o.Fallback {
		return "fallback"
	}
	return string(o.Confidence)
}
