package recovery

import "strings"

// Extract returns the span from the first '{' to the last '}' inclusive, or s
// unchanged when either brace is missing or the last '}' precedes the first
// '{'. Unrelated braces before or after the payload widen the span.
func Extract(s string) string {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first < 0 || last < first {
		return s
	}
	return s[first : last+1]
}

// ExtractBalanced returns the first balanced top-level object of s, found by
// a lexical scan that counts braces outside string literals. When no object
// closes (a truncated reply) it falls back to Extract.
func ExtractBalanced(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return s
	}

	var lex lexer
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		if lex.step(c) {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return Extract(s)
}

// fromFirstBrace returns s starting at its first '{', or "" if there is none.
func fromFirstBrace(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	return s[start:]
}

// tooDeep reports whether s opens more than maxNestingDepth arrays or objects
// at once, counting brackets outside string literals.
func tooDeep(s string) bool {
	var lex lexer
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lex.step(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
			if depth > maxNestingDepth {
				return true
			}
		case '}', ']':
			if depth > 0 {
				depth--
			}
		}
	}
	return false
}
