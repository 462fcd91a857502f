// Package repair recovers structured JSON objects from raw language
// model output.
//
// Model responses rarely arrive as clean JSON: they carry reasoning
// blocks, markdown fences, conversational preamble, and are frequently
// truncated mid-generation when the token budget runs out. This package
// provides two layers:
//
//   - Extract strips framing (reasoning blocks, fences, preamble) and
//     returns the candidate JSON region of the text.
//   - Parse attempts a direct JSON parse, then walks an ordered list of
//     repair strategies that cut the text back to the last structurally
//     sound point and close any open brackets.
//
// Recovery either yields a JSON object (map[string]any) or a *Error
// whose Kind distinguishes "no structure present at all" from
// "structure present but unrecoverable". The pipeline is pure: no
// retries, no I/O, no logging.
package repair
