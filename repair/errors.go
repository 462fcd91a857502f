package repair

import "fmt"

// Kind values discriminate recovery failures.
const (
	// KindNoStructureFound means the text contains no JSON opener at
	// all once framing is stripped.
	KindNoStructureFound = "NO_STRUCTURE_FOUND"
	// KindUnrecoverableStructure means a JSON opener was present but no
	// repair strategy produced a parseable object.
	KindUnrecoverableStructure = "UNRECOVERABLE_STRUCTURE"
)

// snippetLen bounds how much of the offending text an Error carries.
const snippetLen = 200

// Error is a recovery failure. Snippet holds up to the first 200
// characters of the text being recovered, for diagnostics.
type Error struct {
	Kind    string
	Snippet string
}

func (e *Error) Error() string {
	if e.Snippet == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Snippet)
}

// IsNoStructureFound reports whether err is a recovery failure caused
// by the absence of any JSON structure.
func IsNoStructureFound(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindNoStructureFound
}

// IsUnrecoverable reports whether err is a recovery failure where
// structure was present but could not be repaired.
func IsUnrecoverable(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindUnrecoverableStructure
}

func snippet(text string) string {
	if len(text) > snippetLen {
		return text[:snippetLen]
	}
	return text
}
