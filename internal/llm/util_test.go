package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripWrapper(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json",
			input:    `{"response": "hi"}`,
			expected: `{"response": "hi"}`,
		},
		{
			name:     "think block then json",
			input:    "<think>\nThe candidate did well.\n</think>\n{\"response\": \"hi\"}",
			expected: `{"response": "hi"}`,
		},
		{
			name:     "multiple think blocks",
			input:    "<think>a</think>{\"a\": 1}<think>b</think>",
			expected: `{"a": 1}`,
		},
		{
			name:     "uppercase think tags",
			input:    "<THINK>a</THINK>{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "unterminated think block",
			input:    "{\"a\": 1}\n<think>still reasoning about",
			expected: `{"a": 1}`,
		},
		{
			name:     "orphan closing tag",
			input:    "reasoning without an opener</think>{\"a\": 1}",
			expected: `{"a": 1}`,
		},
		{
			name:     "json code fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "think plus fence",
			input:    "<think>hmm</think>\n```json\n{\"a\": 1}\n```\n",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "only reasoning",
			input:    "<think>I have nothing to add</think>",
			expected: "",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripWrapper(tt.input))
		})
	}
}

func TestStripWrapper_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain prose",
		"<think>x</think>{\"a\": 1}",
		"<th<think>nested</think>ink>inner</think>done",
		"``````json\n\n{}",
		"<think>unterminated",
		"``<think>x</think>`json\n{}",
		"</think></think>{}",
		"```json\n```json\n{\"k\": \"```\"}\n```\n```",
		"  \n<think></think>\n  ",
	}

	for _, in := range inputs {
		once := StripWrapper(in)
		assert.Equal(t, once, StripWrapper(once), "input %q", in)
	}
}

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "As requested, here is the JSON:\n{\"persona\": \"Marcus\"}",
			expected: `{"persona": "Marcus"}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Here are the items:\n[\"item1\", \"item2\"]",
			expected: `["item1", "item2"]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"key\": \"value\"}\n\nLet me know if you need anything else!",
			expected: `{"key": "value"}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"message\": \"He said \\\"hello\\\"\"}",
			expected: `{"message": "He said \"hello\""}`,
		},
		{
			name:     "no JSON at all",
			input:    "nothing structured here",
			expected: "nothing structured here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple object", input: `{"key": "value"}`, expected: `{"key": "value"}`},
		{name: "nested objects", input: `{"outer": {"inner": "value"}}`, expected: `{"outer": {"inner": "value"}}`},
		{name: "object with trailing text", input: `{"key": "value"} and some more text`, expected: `{"key": "value"}`},
		{name: "leading prose", input: `Sure! {"key": "value"}`, expected: `{"key": "value"}`},
		{name: "string with braces inside", input: `{"template": "Hello {name}!"}`, expected: `{"template": "Hello {name}!"}`},
		{name: "unbalanced", input: `{"key": "value"`, expected: ""},
		{name: "empty input", input: "", expected: ""},
		{name: "no object", input: "not json", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[[1, 2], [3, 4]]`, extractJSONArray(`[[1, 2], [3, 4]] extra`))
	assert.Equal(t, `[{"id": 1}, {"id": 2}]`, extractJSONArray(`[{"id": 1}, {"id": 2}]`))
	assert.Equal(t, "", extractJSONArray("not array"))
}
