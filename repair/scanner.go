package repair

import "strings"

// scanEvent classifies a single byte during a left-to-right scan.
type scanEvent int

const (
	// evPlain is an ordinary byte outside of any escape sequence.
	evPlain scanEvent = iota
	// evQuote is an unescaped double quote that toggled string state.
	evQuote
	// evSkip is a backslash or the byte it consumes.
	evSkip
)

// scanState tracks quote and escape context during a scan. It is a
// value type so callers can snapshot or discard it freely.
type scanState struct {
	inString      bool
	escapePending bool
}

// step advances the state by one byte and reports how the byte was
// classified. An unescaped backslash always consumes exactly the next
// byte, whatever it is.
func (s *scanState) step(ch byte) scanEvent {
	if s.escapePending {
		s.escapePending = false
		return evSkip
	}
	switch ch {
	case '\\':
		s.escapePending = true
		return evSkip
	case '"':
		s.inString = !s.inString
		return evQuote
	default:
		return evPlain
	}
}

// countUnescapedQuotes returns the number of quote characters that
// actually delimit strings. An odd count means the text ends inside an
// unterminated string.
func countUnescapedQuotes(text string) int {
	var st scanState
	n := 0
	for i := 0; i < len(text); i++ {
		if st.step(text[i]) == evQuote {
			n++
		}
	}
	return n
}

// lastClosedQuote returns the index of the last quote that closed a
// string, or -1 if no string was ever closed.
func lastClosedQuote(text string) int {
	var st scanState
	last := -1
	for i := 0; i < len(text); i++ {
		if st.step(text[i]) == evQuote && !st.inString {
			last = i
		}
	}
	return last
}

// lastTopLevelComma returns the index of the last comma outside of any
// string, or -1 if there is none. Commas consumed by an escape sequence
// do not count.
func lastTopLevelComma(text string) int {
	var st scanState
	last := -1
	for i := 0; i < len(text); i++ {
		if st.step(text[i]) == evPlain && !st.inString && text[i] == ',' {
			last = i
		}
	}
	return last
}

// closeBrackets appends closing brackets for every net-unmatched opener
// in text. Counting is by raw character occurrence over the whole text,
// including characters inside string literals, and closers are appended
// grouped by kind rather than in nesting order. This mirrors the
// recovery heuristic's deliberate approximation: truncated output is
// already malformed, and the counted guess closes the common case of a
// structure cut off mid-object.
func closeBrackets(text string) string {
	openSquare := strings.Count(text, "[") - strings.Count(text, "]")
	openCurly := strings.Count(text, "{") - strings.Count(text, "}")

	var b strings.Builder
	b.WriteString(text)
	for i := 0; i < openSquare; i++ {
		b.WriteByte(']')
	}
	for i := 0; i < openCurly; i++ {
		b.WriteByte('}')
	}
	return b.String()
}
