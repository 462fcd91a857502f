package repair

import (
	"encoding/json"
	"regexp"
)

var (
	danglingKeyRe   = regexp.MustCompile(`,\s*"[^"]*"\s*:\s*$`)
	trailingCommaRe = regexp.MustCompile(`,\s*$`)
)

// strategy is one repair attempt. apply returns a repaired candidate
// and whether the strategy was applicable at all; an inapplicable
// strategy is skipped without a parse attempt.
type strategy struct {
	name  string
	apply func(text string) (string, bool)
}

// strategies are tried in order after a failed direct parse. The first
// candidate that parses to an object wins; a candidate that parses to
// anything else does not stop the walk.
var strategies = []strategy{
	{name: "close_open_structures", apply: closeOpenStructures},
	{name: "truncate_to_closed_quote", apply: truncateToClosedQuote},
	{name: "truncate_to_last_field", apply: truncateToLastField},
	{name: "truncate_to_object_close", apply: truncateToObjectClose},
	{name: "truncate_to_array_close", apply: truncateToArrayClose},
}

// closeOpenStructures handles text truncated mid-string or right after
// a complete field: an odd unescaped quote count gets a terminating
// quote, then unmatched brackets are closed. This loses nothing, so it
// runs first.
func closeOpenStructures(text string) (string, bool) {
	if countUnescapedQuotes(text)%2 != 0 {
		text += `"`
	}
	return closeBrackets(text), true
}

// truncateToClosedQuote cuts the text just after the last string that
// actually closed, drops a now-dangling key or trailing comma, and
// closes brackets.
func truncateToClosedQuote(text string) (string, bool) {
	pos := lastClosedQuote(text)
	if pos < 0 {
		return "", false
	}
	candidate := text[:pos+1]
	candidate = danglingKeyRe.ReplaceAllString(candidate, "")
	candidate = trailingCommaRe.ReplaceAllString(candidate, "")
	return closeBrackets(candidate), true
}

// truncateToLastField cuts the text just before the last comma outside
// any string, discarding the partial field after it.
func truncateToLastField(text string) (string, bool) {
	pos := lastTopLevelComma(text)
	if pos < 0 {
		return "", false
	}
	candidate := trailingCommaRe.ReplaceAllString(text[:pos], "")
	return closeBrackets(candidate), true
}

// truncateToObjectClose keeps everything up to and including the last
// '}'. A brace at position zero would leave just "{", which cannot be a
// useful recovery.
func truncateToObjectClose(text string) (string, bool) {
	pos := -1
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == '}' {
			pos = i
			break
		}
	}
	if pos <= 0 {
		return "", false
	}
	return closeBrackets(text[:pos+1]), true
}

// truncateToArrayClose keeps everything up to and including the last
// ']'.
func truncateToArrayClose(text string) (string, bool) {
	pos := -1
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] == ']' {
			pos = i
			break
		}
	}
	if pos <= 0 {
		return "", false
	}
	return closeBrackets(text[:pos+1]), true
}

// tryParse parses text and accepts only a JSON object result. A
// top-level array is unwrapped to its first element when that element
// is an object.
func tryParse(text string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		if len(t) > 0 {
			if obj, ok := t[0].(map[string]any); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

// Recover extracts the JSON region of raw and parses it, applying the
// repair strategies in order when the direct parse fails. It returns
// the recovered object and the name of the strategy that produced it;
// the name is empty when the direct parse succeeded.
func Recover(raw string) (map[string]any, string, error) {
	text, err := Extract(raw)
	if err != nil {
		return nil, "", err
	}

	if obj, ok := tryParse(text); ok {
		return obj, "", nil
	}

	for _, st := range strategies {
		candidate, ok := st.apply(text)
		if !ok {
			continue
		}
		if obj, ok := tryParse(candidate); ok {
			return obj, st.name, nil
		}
	}

	return nil, "", &Error{Kind: KindUnrecoverableStructure, Snippet: snippet(text)}
}

// Parse is Recover without the strategy attribution.
func Parse(raw string) (map[string]any, error) {
	obj, _, err := Recover(raw)
	return obj, err
}
