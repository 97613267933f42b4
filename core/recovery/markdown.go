package recovery

import (
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTag matches the tags models tend to mix into Markdown answers. Only
// name=value attributes are accepted, so inequalities such as "<b$" or
// "a <b and c> d" are not tags.
var htmlTag = regexp.MustCompile(`(?i)</?(?:p|br|hr|div|span|strong|b|em|i|u|ul|ol|li|table|thead|tbody|tr|td|th|h[1-6]|code|pre|sup|sub|a|blockquote)(?:\s+[a-z_:][-\w:.]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>=$]+))*\s*/?>`)

// mathSpan matches inline $...$ and display $$...$$ LaTeX.
var mathSpan = regexp.MustCompile(`\$\$[^$]*\$\$|\$[^$]*\$`)

// HTMLToMarkdown converts s to Markdown when it contains HTML tags outside
// LaTeX spans. LaTeX spans are kept byte for byte. Text without tags, and
// text the converter rejects, is returned unchanged.
func HTMLToMarkdown(s string) string {
	if !htmlTag.MatchString(mathSpan.ReplaceAllString(s, "")) {
		return s
	}

	var spans []string
	protected := mathSpan.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, m)
		return mathPlaceholder(len(spans) - 1)
	})

	md, err := htmltomarkdown.ConvertString(protected)
	if err != nil {
		return s
	}

	if len(spans) == 0 {
		return md
	}
	pairs := make([]string, 0, 2*len(spans))
	for i, m := range spans {
		pairs = append(pairs, mathPlaceholder(i), m)
	}
	return strings.NewReplacer(pairs...).Replace(md)
}

// mathPlaceholder is plain ASCII so the converter neither escapes nor splits
// it. The trailing letter keeps placeholder 1 from matching a prefix of 10.
func mathPlaceholder(i int) string {
	return "STUDYHELPERMATH" + strconv.Itoa(i) + "Z"
}
