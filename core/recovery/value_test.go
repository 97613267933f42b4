package recovery

import (
	"strings"
	"testing"
)

// ========== ParseObject ==========

// TestParseObject_RejectsNonObjects verifies that only a top-level object
// counts as a successful parse.
func TestParseObject_RejectsNonObjects(t *testing.T) {
	inputs := []string{"", "null", "42", `"text"`, "[1,2]", "true", "{", `{"a":}`, `{'a':1}`, `{"a":1} trailing`}
	for _, in := range inputs {
		if _, ok := ParseObject(in); ok {
			t.Errorf("ParseObject(%q) succeeded, expected failure", in)
		}
	}
}

// TestParseObject_RejectsDeepNesting verifies valid JSON nested past the
// limit is refused.
func TestParseObject_RejectsDeepNesting(t *testing.T) {
	depth := maxNestingDepth + 1
	deep := `{"a":` + strings.Repeat("[", depth) + strings.Repeat("]", depth) + `}`
	if _, ok := ParseObject(deep); ok {
		t.Error("expected deeply nested object to be rejected")
	}
}

// TestParseObject_Tree verifies kinds, member order and literal number text.
func TestParseObject_Tree(t *testing.T) {
	obj, ok := ParseObject(`{"z":1.50,"a":[true,null,"s"],"m":{"k":-2e3}}`)
	if !ok {
		t.Fatal("expected object to parse")
	}
	if obj.Kind != KindObject {
		t.Fatalf("expected object kind, got %s", obj.Kind)
	}

	keys := []string{"z", "a", "m"}
	if len(obj.Members) != len(keys) {
		t.Fatalf("expected %d members, got %d", len(keys), len(obj.Members))
	}
	for i, k := range keys {
		if obj.Members[i].Key != k {
			t.Errorf("member %d: expected key %q, got %q", i, k, obj.Members[i].Key)
		}
	}

	z, _ := obj.Get("z")
	if z.Kind != KindNumber || z.Text != "1.50" {
		t.Errorf("expected number 1.50, got %s %q", z.Kind, z.Text)
	}

	a, _ := obj.Get("a")
	if a.Kind != KindArray || len(a.Items) != 3 {
		t.Fatalf("expected 3-item array, got %s with %d items", a.Kind, len(a.Items))
	}
	wantKinds := []Kind{KindBool, KindNull, KindString}
	for i, k := range wantKinds {
		if a.Items[i].Kind != k {
			t.Errorf("item %d: expected %s, got %s", i, k, a.Items[i].Kind)
		}
	}

	m, _ := obj.Get("m")
	k, ok := m.Get("k")
	if !ok || k.Text != "-2e3" {
		t.Errorf("expected nested number -2e3, got %q", k.Text)
	}
}

// TestValue_GetLastWins verifies duplicate keys resolve to the last occurrence.
func TestValue_GetLastWins(t *testing.T) {
	obj, ok := ParseObject(`{"answer":"first","answer":"second"}`)
	if !ok {
		t.Fatal("expected object to parse")
	}
	v, ok := obj.Get("answer")
	if !ok || v.Text != "second" {
		t.Errorf("expected last duplicate to win, got %q", v.Text)
	}
	if _, ok := obj.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}

// TestValue_CompactJSON verifies whitespace removal on nested raw text.
func TestValue_CompactJSON(t *testing.T) {
	obj, _ := ParseObject("{\"m\": { \"x\" : 1,\n \"y\": [ 1, 2 ] }}")
	m, _ := obj.Get("m")
	if got := m.CompactJSON(); got != `{"x":1,"y":[1,2]}` {
		t.Errorf("unexpected compact JSON %q", got)
	}
}

// TestKind_String verifies kind names used in logs and test output.
func TestKind_String(t *testing.T) {
	if KindObject.String() != "object" || KindNull.String() != "null" {
		t.Error("unexpected kind names")
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected unknown kind name %q", Kind(99).String())
	}
}
