package recovery

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

// Kind is the type tag of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a parsed but unvalidated JSON value. Objects keep their members in
// document order.
type Value struct {
	Kind Kind

	// Text is the decoded string for KindString and the literal number text
	// for KindNumber.
	Text string

	// Bool is set for KindBool.
	Bool bool

	// Items holds array elements.
	Items []Value

	// Members holds object members in document order, duplicates included.
	Members []Member

	// Raw is the source text of the value.
	Raw string
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Get returns the value of the last member named key.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for i := len(v.Members) - 1; i >= 0; i-- {
		if v.Members[i].Key == key {
			return v.Members[i].Value, true
		}
	}
	return Value{}, false
}

// CompactJSON returns the source text of v with insignificant whitespace
// removed. If compaction fails the raw text is returned.
func (v Value) CompactJSON() string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(v.Raw)); err != nil {
		return v.Raw
	}
	return buf.String()
}

// maxNestingDepth bounds how deeply arrays and objects may nest in text the
// pipeline parses or repairs.
const maxNestingDepth = 128

// ParseObject parses text as strict JSON and returns its top-level object.
// It fails on invalid JSON, on any top-level value other than an object and
// on nesting deeper than maxNestingDepth.
func ParseObject(text string) (Value, bool) {
	if tooDeep(text) || !gjson.Valid(text) {
		return Value{}, false
	}
	result := gjson.Parse(text)
	if !result.IsObject() {
		return Value{}, false
	}
	return valueOf(result), true
}

func valueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.False:
		return Value{Kind: KindBool, Bool: false, Raw: r.Raw}
	case gjson.True:
		return Value{Kind: KindBool, Bool: true, Raw: r.Raw}
	case gjson.Number:
		return Value{Kind: KindNumber, Text: r.Raw, Raw: r.Raw}
	case gjson.String:
		return Value{Kind: KindString, Text: r.String(), Raw: r.Raw}
	case gjson.JSON:
		if r.IsArray() {
			out := Value{Kind: KindArray, Raw: r.Raw}
			r.ForEach(func(_, item gjson.Result) bool {
				out.Items = append(out.Items, valueOf(item))
				return true
			})
			return out
		}
		out := Value{Kind: KindObject, Raw: r.Raw}
		r.ForEach(func(key, item gjson.Result) bool {
			out.Members = append(out.Members, Member{Key: key.String(), Value: valueOf(item)})
			return true
		})
		return out
	}
	return Value{Kind: KindNull, Raw: r.Raw}
}
