package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverDirectParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "valid object passes through",
			raw:  `{"title": "Test", "duration_weeks": 26}`,
			want: map[string]any{"title": "Test", "duration_weeks": float64(26)},
		},
		{
			name: "escaped quote inside value",
			raw:  `{"a": "val\"ue"}`,
			want: map[string]any{"a": `val"ue`},
		},
		{
			name: "array wrapped object unwrapped",
			raw:  `[{"title": "X"}]`,
			want: map[string]any{"title": "X"},
		},
		{
			name: "empty object is a valid mapping",
			raw:  `{}`,
			want: map[string]any{},
		},
		{
			name: "nested structures preserved",
			raw:  `{"weeks": [{"week": 1, "concepts": ["A", "B"]}], "done": true}`,
			want: map[string]any{
				"weeks": []any{map[string]any{"week": float64(1), "concepts": []any{"A", "B"}}},
				"done":  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, err := Recover(tt.raw)
			require.NoError(t, err)
			assert.Empty(t, strategy, "direct parse should not engage the repair pipeline")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecoverTruncated(t *testing.T) {
	t.Run("truncated mid string", func(t *testing.T) {
		raw := `{"title": "MERN Stack Mastery", "description": "Master the MERN", "duration_weeks": 26, "prerequisites": ["Basic understa`
		got, strategy, err := Recover(raw)
		require.NoError(t, err)

		assert.Equal(t, "close_open_structures", strategy)
		assert.Equal(t, "MERN Stack Mastery", got["title"])
		assert.Equal(t, "Master the MERN", got["description"])
		assert.Equal(t, float64(26), got["duration_weeks"])
		prereqs, ok := got["prerequisites"].([]any)
		require.True(t, ok, "prerequisites must come back as a valid list")
		assert.LessOrEqual(t, len(prereqs), 1)
	})

	t.Run("truncated after complete field", func(t *testing.T) {
		raw := `{"title": "Test", "duration_weeks": 26`
		got, strategy, err := Recover(raw)
		require.NoError(t, err)

		assert.Equal(t, "close_open_structures", strategy)
		assert.Equal(t, map[string]any{"title": "Test", "duration_weeks": float64(26)}, got)
	})

	t.Run("truncated inside second array element", func(t *testing.T) {
		raw := `{"title": "Test", "weeks": [{"week": 1, "title": "Intro", "concepts": ["A", "B"]}, {"week": 2, "title": "More`
		got, strategy, err := Recover(raw)
		require.NoError(t, err)

		assert.Equal(t, "truncate_to_object_close", strategy)
		weeks, ok := got["weeks"].([]any)
		require.True(t, ok)
		require.Len(t, weeks, 1, "partial second week must be dropped")
		week := weeks[0].(map[string]any)
		assert.Equal(t, float64(1), week["week"])
		assert.Equal(t, "Intro", week["title"])
		assert.Equal(t, []any{"A", "B"}, week["concepts"])
	})

	t.Run("truncated after dangling key", func(t *testing.T) {
		raw := `{"title": "Test", "focus": "theory", "days":`
		got, _, err := Recover(raw)
		require.NoError(t, err)

		assert.Equal(t, "Test", got["title"])
		assert.Equal(t, "theory", got["focus"])
		assert.NotContains(t, got, "days")
	})
}

func TestRecoverFraming(t *testing.T) {
	t.Run("reasoning block before payload", func(t *testing.T) {
		raw := "<think>outline first, then weeks</think>\n{\"title\": \"Go Course\"}"
		got, strategy, err := Recover(raw)
		require.NoError(t, err)
		assert.Empty(t, strategy)
		assert.Equal(t, map[string]any{"title": "Go Course"}, got)
	})

	t.Run("unclosed reasoning then payload", func(t *testing.T) {
		raw := `<think>the user wants a course about {"title": "Rust Course", "duration_weeks": 4}`
		got, _, err := Recover(raw)
		require.NoError(t, err)
		assert.Equal(t, "Rust Course", got["title"])
	})

	t.Run("fenced truncated payload", func(t *testing.T) {
		raw := "```json\n{\"title\": \"Test\", \"duration_weeks\": 12"
		got, strategy, err := Recover(raw)
		require.NoError(t, err)
		assert.Equal(t, "close_open_structures", strategy)
		assert.Equal(t, float64(12), got["duration_weeks"])
	})
}

func TestRecoverFailures(t *testing.T) {
	t.Run("no structure at all", func(t *testing.T) {
		_, _, err := Recover("I'm sorry, I can only answer questions about courses.")
		require.Error(t, err)
		assert.True(t, IsNoStructureFound(err))
		assert.False(t, IsUnrecoverable(err))
	})

	t.Run("scrambled structure", func(t *testing.T) {
		_, _, err := Recover(`{"key" 12 "value}`)
		require.Error(t, err)
		assert.True(t, IsUnrecoverable(err))
		assert.False(t, IsNoStructureFound(err))
	})

	t.Run("scalar array cannot unwrap", func(t *testing.T) {
		_, _, err := Recover(`[1, 2, 3]`)
		require.Error(t, err)
		assert.True(t, IsUnrecoverable(err))
	})

	t.Run("snippet carries extractor output", func(t *testing.T) {
		_, _, err := Recover(`Here you go: {"key" 12 "value}`)
		var re *Error
		require.ErrorAs(t, err, &re)
		assert.Equal(t, KindUnrecoverableStructure, re.Kind)
		assert.Equal(t, `{"key" 12 "value}`, re.Snippet)
	})
}

func TestParse(t *testing.T) {
	got, err := Parse(`{"title": "Test"}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Test"}, got)

	_, err = Parse("no payload")
	require.Error(t, err)
}
