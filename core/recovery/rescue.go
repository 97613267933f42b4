package recovery

import "strings"

// rescueTruncated patches a reply that was cut off before its object closed.
// It sanitizes the text from its first '{', terminates an open string,
// repairs a dangling ',' or ':' and then closes every open array and object
// in reverse order. The result is only a guess: callers must still parse it.
// It returns "" when raw contains no '{' or nests too deeply.
func rescueTruncated(raw string) string {
	tail := fromFirstBrace(raw)
	if tail == "" || tooDeep(tail) {
		return ""
	}
	return closeTruncated(Sanitize(tail))
}

func closeTruncated(s string) string {
	var lex lexer
	var open []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if lex.step(c) {
			continue
		}
		switch c {
		case '{', '[':
			open = append(open, c)
		case '}', ']':
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}

	var b strings.Builder
	if lex.inString {
		if lex.escaped {
			s = s[:len(s)-1]
		}
		b.WriteString(s)
		b.WriteByte('"')
	} else {
		s = strings.TrimRight(s, " \t\n")
		switch {
		case strings.HasSuffix(s, ","):
			s = s[:len(s)-1]
		case strings.HasSuffix(s, ":"):
			s += "null"
		}
		b.WriteString(s)
	}

	for i := len(open) - 1; i >= 0; i-- {
		if open[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}

	return b.String()
}
