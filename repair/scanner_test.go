package repair

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCountUnescapedQuotes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "no quotes", text: `{a: 1}`, want: 0},
		{name: "simple pair", text: `{"a": 1}`, want: 2},
		{name: "escaped quote inside string", text: `{"a": "val\"ue"}`, want: 4},
		{name: "escaped backslash then quote", text: `"a\\"`, want: 2},
		{name: "unterminated string", text: `{"a": "val`, want: 3},
		{name: "backslash consumes next char", text: `\"`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countUnescapedQuotes(tt.text))
		})
	}
}

func TestLastClosedQuote(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: -1},
		{name: "no strings", text: `{1: 2}`, want: -1},
		{name: "open never closed", text: `{"a`, want: -1},
		{name: "single closed string", text: `{"ab"`, want: 4},
		{name: "closing quote of last complete string", text: `{"a": "b", "c`, want: 8},
		{name: "escaped quote not a boundary", text: `{"a\"b"`, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastClosedQuote(tt.text))
		})
	}
}

func TestLastTopLevelComma(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: -1},
		{name: "no comma", text: `{"a": 1}`, want: -1},
		{name: "comma inside string ignored", text: `{"a": "x,y"}`, want: -1},
		{name: "comma between fields", text: `{"a": 1, "b": 2`, want: 7},
		{name: "last of several", text: `[1, 2, 3`, want: 5},
		{name: "escape-consumed comma ignored", text: `\,`, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastTopLevelComma(tt.text))
		})
	}
}

func TestCloseBrackets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "balanced unchanged", text: `{"a": [1]}`, want: `{"a": [1]}`},
		{name: "open object", text: `{"a": 1`, want: `{"a": 1}`},
		{name: "open array in object", text: `{"a": [1`, want: `{"a": [1]}`},
		{name: "two objects one array", text: `{"a": [{"b": 1`, want: `{"a": [{"b": 1]}}`},
		{name: "excess closers untouched", text: `}}`, want: `}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, closeBrackets(tt.text))
		})
	}
}

func netCount(text string, open, close byte) int {
	return strings.Count(text, string(open)) - strings.Count(text, string(close))
}

func TestScannerProperties(t *testing.T) {
	plain := rapid.StringOfN(rapid.RuneFrom([]rune("abc xyz,:{}[]0123456789")), 0, 32, -1)

	t.Run("quoted literal closes exactly once", rapid.MakeCheck(func(t *rapid.T) {
		body := plain.Draw(t, "body")
		text := `"` + body + `"`
		assert.Equal(t, 2, countUnescapedQuotes(text))
		assert.Equal(t, len(text)-1, lastClosedQuote(text))
	}))

	t.Run("escaped quotes are invisible", rapid.MakeCheck(func(t *rapid.T) {
		body := plain.Draw(t, "body")
		text := `"` + body + `\"` + body + `"`
		assert.Equal(t, 2, countUnescapedQuotes(text))
		assert.Equal(t, len(text)-1, lastClosedQuote(text))
	}))

	t.Run("comma position found outside strings", rapid.MakeCheck(func(t *rapid.T) {
		left := rapid.StringOfN(rapid.RuneFrom([]rune("abc {}[]")), 0, 16, -1).Draw(t, "left")
		right := rapid.StringOfN(rapid.RuneFrom([]rune("abc {}[]")), 0, 16, -1).Draw(t, "right")
		text := left + "," + right
		assert.Equal(t, strings.LastIndex(text, ","), lastTopLevelComma(text))
	}))

	t.Run("closeBrackets balances net-open input", rapid.MakeCheck(func(t *rapid.T) {
		text := plain.Draw(t, "text")
		out := closeBrackets(text)
		assert.True(t, strings.HasPrefix(out, text))

		wantCurly := netCount(text, '{', '}')
		if wantCurly > 0 {
			wantCurly = 0
		}
		wantSquare := netCount(text, '[', ']')
		if wantSquare > 0 {
			wantSquare = 0
		}
		assert.Equal(t, wantCurly, netCount(out, '{', '}'))
		assert.Equal(t, wantSquare, netCount(out, '[', ']'))
	}))
}
