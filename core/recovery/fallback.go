package recovery

// BuildFallback returns the record used when every recovery stage failed.
// The schema's raw field holds raw byte for byte, notice fields hold their
// diagnostic text and all other fields are empty. It never fails.
func BuildFallback(schema Schema, raw string) Record {
	out := make(Record, len(schema.Fields))
	for _, name := range schema.Fields {
		out[name] = schema.Notices[name]
	}
	if schema.RawField != "" {
		out[schema.RawField] = raw
	}
	return out
}
