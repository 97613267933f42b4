package recovery

import "testing"

// ========== Sanitize ==========

// TestSanitize verifies control character removal and newline escaping.
func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"clean object untouched", `{"a":"b"}`, `{"a":"b"}`},
		{"carriage returns stripped everywhere", "{\r\n\"a\":\"x\r\ny\"}", "{\n\"a\":\"x\\ny\"}"},
		{"structural newlines kept", "{\n  \"a\": 1\n}", "{\n  \"a\": 1\n}"},
		{"newline in string escaped", "{\"a\":\"line1\nline2\"}", `{"a":"line1\nline2"}`},
		{"control characters stripped", "\x00{\"a\x01\":\"b\x1f\"}\x0b", `{"a":"b"}`},
		{"tab stripped", "{\"a\":\"x\ty\"}", `{"a":"xy"}`},
		{"escaped quote keeps string open", "{\"a\":\"q\\\"\nz\"}", `{"a":"q\"\nz"}`},
		{"backslash before newline does not escape it", "{\"a\":\"x\\\ny\"}", `{"a":"x\\ny"}`},
		{"newline outside after string", "{\"a\":\"b\"\n}", "{\"a\":\"b\"\n}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestSanitize_MakesNewlineInputParseable verifies that sanitized output with
// an embedded line break parses and keeps both lines.
func TestSanitize_MakesNewlineInputParseable(t *testing.T) {
	in := "{\n  \"summary\": \"first line\nsecond line\",\n  \"answer\": \"B\"\n}"
	if _, ok := ParseObject(in); ok {
		t.Fatal("raw input should not parse")
	}

	obj, ok := ParseObject(Sanitize(in))
	if !ok {
		t.Fatalf("sanitized input did not parse: %q", Sanitize(in))
	}

	summary, _ := obj.Get("summary")
	if summary.Text != "first line\nsecond line" {
		t.Errorf("unexpected summary %q", summary.Text)
	}
	answer, _ := obj.Get("answer")
	if answer.Text != "B" {
		t.Errorf("unexpected answer %q", answer.Text)
	}
}

// TestSanitize_BackslashNewlineParses verifies the escape state is cleared
// after a converted line break so the closing quote still ends the string.
func TestSanitize_BackslashNewlineParses(t *testing.T) {
	obj, ok := ParseObject(Sanitize("{\"a\":\"x\\\ny\",\"b\":\"z\"}"))
	if !ok {
		t.Fatal("expected sanitized text to parse")
	}
	b, _ := obj.Get("b")
	if b.Text != "z" {
		t.Errorf("sibling field corrupted: %q", b.Text)
	}
}

// TestSanitize_Idempotent verifies a second pass changes nothing.
func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"{\"a\":\"x\ny\"}",
		"\x00{\r\n\"k\":\"v\\\"\n\"}",
		"plain text\nwith lines",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

// ========== lexer ==========

// TestLexer verifies string tracking across escapes.
func TestLexer(t *testing.T) {
	var l lexer
	for _, c := range []byte(`{"a\"b":`) {
		l.step(c)
	}
	if l.inString {
		t.Error("expected lexer outside string after closing quote")
	}

	l = lexer{}
	for _, c := range []byte(`{"open\`) {
		l.step(c)
	}
	if !l.inString || !l.escaped {
		t.Errorf("expected open string with pending escape, got %+v", l)
	}
}
