package repair

import (
	"regexp"
	"strings"
)

// thinkBlockRe matches a closed reasoning block, spanning newlines,
// shortest match first so multiple blocks are removed independently.
var thinkBlockRe = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Extract strips response framing and returns the candidate JSON
// region of raw: reasoning blocks, markdown fences, and any preamble
// before the first '{' or '[' are removed. It returns a *Error of kind
// KindNoStructureFound when no opener remains.
func Extract(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	text = thinkBlockRe.ReplaceAllString(text, "")

	// An unclosed reasoning block swallows everything up to the next
	// structural opener, or the rest of the text if none follows.
	if idx := strings.Index(text, "<think>"); idx >= 0 {
		rest := text[idx:]
		if cut := strings.IndexAny(rest, "{["); cut >= 0 {
			text = text[:idx] + rest[cut:]
		} else {
			text = text[:idx]
		}
	}

	text = strings.TrimSpace(text)

	// Opening fence line, e.g. ```json
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = ""
		}
	}

	// Closing fence, only when it is the final line.
	text = strings.TrimSpace(text)
	if idx := strings.LastIndex(text, "```"); idx >= 0 && strings.TrimSpace(text[idx+3:]) == "" {
		text = text[:idx]
	}

	text = strings.TrimSpace(text)

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", &Error{Kind: KindNoStructureFound, Snippet: snippet(text)}
	}
	return text[start:], nil
}
