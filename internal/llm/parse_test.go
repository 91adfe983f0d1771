package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "raw JSON",
			raw:      `{"summary": "ok", "scores": {"brandVoice": 80}}`,
			expected: `{"summary": "ok", "scores": {"brandVoice": 80}}`,
		},
		{
			name:     "fenced code block",
			raw:      "```json\n{\"summary\": \"ok\"}\n```",
			expected: `{"summary": "ok"}`,
		},
		{
			name:     "fenced block without language tag",
			raw:      "```\n{\"summary\": \"ok\"}\n```",
			expected: `{"summary": "ok"}`,
		},
		{
			name:     "leading and trailing prose",
			raw:      "Here is the analysis you asked for:\n{\"summary\": \"ok\"}\nLet me know if you need more.",
			expected: `{"summary": "ok"}`,
		},
		{
			name:     "nested objects",
			raw:      `{"a": {"b": {"c": 1}}} and then some prose`,
			expected: `{"a": {"b": {"c": 1}}}`,
		},
		{
			name:     "braces inside string literals",
			raw:      `{"summary": "uses { and } in text", "n": 1}`,
			expected: `{"summary": "uses { and } in text", "n": 1}`,
		},
		{
			name:     "escaped quotes inside strings",
			raw:      `{"summary": "she said \"hello {world}\""}`,
			expected: `{"summary": "she said \"hello {world}\""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractJSONObject_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace only", raw: "   \n\t "},
		{name: "no object at all", raw: "The site looks great, no JSON here."},
		{name: "unbalanced braces", raw: `{"summary": "ok"`},
		{name: "invalid JSON inside braces", raw: `{summary: ok}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSONObject(tt.raw)
			require.Error(t, err)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}
