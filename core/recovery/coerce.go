package recovery

import (
	"strconv"
	"strings"
)

// Coerce reads every schema field from obj and converts it to a string.
// Fields the object does not carry stay absent from the result and members
// outside the schema are ignored. Coerce never fails: a value that cannot be
// flattened is rendered as its compact JSON text.
func Coerce(schema Schema, obj Value) Record {
	out := make(Record, len(schema.Fields))
	for _, name := range schema.Fields {
		v, ok := obj.Get(name)
		if !ok {
			continue
		}
		out[name] = coerceField(v)
	}
	return out
}

func coerceField(v Value) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = v.CompactJSON()
		}
	}()

	switch v.Kind {
	case KindNull:
		return ""
	case KindString:
		return v.Text
	case KindNumber:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindObject, KindArray:
		return flatten(v)
	}
	return v.CompactJSON()
}

// flatten renders an object or array as Markdown: one "**key**: value" pair
// per member, pairs separated by a blank line. Array members are keyed by
// their index.
func flatten(v Value) string {
	var pairs []string
	switch v.Kind {
	case KindObject:
		pairs = make([]string, 0, len(v.Members))
		for _, m := range v.Members {
			pairs = append(pairs, "**"+m.Key+"**: "+nestedText(m.Value))
		}
	case KindArray:
		pairs = make([]string, 0, len(v.Items))
		for i, item := range v.Items {
			pairs = append(pairs, "**"+strconv.Itoa(i)+"**: "+nestedText(item))
		}
	}
	return strings.Join(pairs, "\n\n")
}

func nestedText(v Value) string {
	switch v.Kind {
	case KindString:
		return v.Text
	case KindNumber:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNull:
		return "null"
	}
	return v.CompactJSON()
}
