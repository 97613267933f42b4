package recovery

import (
	"strings"
	"testing"
)

// TestHTMLToMarkdown verifies that only text with tags is converted.
func TestHTMLToMarkdown(t *testing.T) {
	unchanged := []string{
		"",
		"plain **markdown**",
		"$a<b$ and $c>d$",
		"Since $a<b$ and $c>d$, we get $a-d<b-c$.",
		"$a<b c>d$",
		"$$x<p>y$$",
		"a <b and c> d",
		"x < y > z",
		"if i<u and u>v then",
	}
	for _, s := range unchanged {
		if got := HTMLToMarkdown(s); got != s {
			t.Errorf("HTMLToMarkdown(%q) = %q, want unchanged", s, got)
		}
	}

	got := HTMLToMarkdown("<p>Step <strong>one</strong></p><ul><li>a</li><li>b</li></ul>")
	if strings.Contains(got, "<") {
		t.Errorf("expected tags to be removed, got %q", got)
	}
	if !strings.Contains(got, "**one**") || !strings.Contains(got, "- a") {
		t.Errorf("unexpected Markdown %q", got)
	}
}

// TestHTMLToMarkdown_KeepsLaTeX verifies formulas next to real tags survive
// the conversion byte for byte.
func TestHTMLToMarkdown_KeepsLaTeX(t *testing.T) {
	in := "<p>Since $a<b$ and $c>d$ the <strong>key</strong> step gives $$a-d<b-c$$</p>"
	got := HTMLToMarkdown(in)

	for _, want := range []string{"$a<b$", "$c>d$", "$$a-d<b-c$$", "**key**"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "STUDYHELPERMATH") {
		t.Errorf("unexpected leftovers in %q", got)
	}
}

// TestHTMLTag verifies which fragments count as tags.
func TestHTMLTag(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"<p>", true},
		{"</p>", true},
		{"<br/>", true},
		{"<br />", true},
		{`<a href="https://example.com">`, true},
		{"<td colspan=2>", true},
		{"<H2>", true},
		{"<b$", false},
		{"<b and c>", false},
		{"<bold>", false},
		{"<script>", false},
	}

	for _, tt := range tests {
		if got := htmlTag.MatchString(tt.in); got != tt.want {
			t.Errorf("htmlTag.MatchString(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
