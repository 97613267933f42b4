package recovery

import "strings"

// lexer tracks whether a left-to-right scan is inside a JSON string literal.
type lexer struct {
	inString bool
	escaped  bool
}

// step advances the lexer over c and reports whether c belongs to a string
// literal, quotes included. Structural characters are those for which step
// returns false.
func (l *lexer) step(c byte) bool {
	if !l.inString {
		if c == '"' {
			l.inString = true
			return true
		}
		return false
	}

	switch {
	case l.escaped:
		l.escaped = false
	case c == '\\':
		l.escaped = true
	case c == '"':
		l.inString = false
	}
	return true
}

// isStrippedControl reports whether c is a control character that never
// carries meaning in the payload: U+0000-U+0009, U+000B-U+000C, U+000E-U+001F.
// Line feed and carriage return are handled separately.
func isStrippedControl(c byte) bool {
	return c < 0x20 && c != '\n' && c != '\r'
}

// Sanitize makes a candidate more likely to satisfy strict JSON grammar
// without touching its structure. It drops stray control characters and
// carriage returns everywhere and turns a physical line feed inside a string
// literal into the two-character escape \n. Line feeds between tokens are
// kept. A backslash right before a line feed does not escape it: the line
// feed is still converted and the escape ends there.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	var lex lexer
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\r' || isStrippedControl(c):
			continue
		case c == '\n' && lex.inString:
			b.WriteString(`\n`)
			lex.escaped = false
			continue
		}
		lex.step(c)
		b.WriteByte(c)
	}

	return b.String()
}
