// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

var (
	thinkBlockRe      = regexp.MustCompile(`(?is)<think>.*?</think>`)
	thinkUnclosedRe   = regexp.MustCompile(`(?is)<think>.*$`)
	strayThinkCloseRe = regexp.MustCompile(`(?is)^.*?</think>`)
	codeFenceRe       = regexp.MustCompile("(?i)```(?:json)?\\n?")
)

// StripWrapper removes the reasoning blocks and Markdown fences that chat
// models wrap around their answers. Every <think>...</think> block goes, as does
// an unterminated trailing <think> block and any reasoning left before a
// closing tag whose opener was dropped. Code fence markers go last.
//
// The passes repeat until the text stops changing, so
// StripWrapper(StripWrapper(x)) == StripWrapper(x) for any x.
func StripWrapper(text string) string {
	for {
		next := stripOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripOnce(text string) string {
	text = thinkBlockRe.ReplaceAllString(text, "")
	text = thinkUnclosedRe.ReplaceAllString(text, "")
	text = strayThinkCloseRe.ReplaceAllString(text, "")
	text = codeFenceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// CleanJSONBlock removes markdown code block wrappers from JSON responses and
// drops any conversational preamble or trailing text around the JSON value.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	var extracted string
	if text[start] == '{' {
		extracted = extractJSONObject(text[start:])
	} else {
		extracted = extractJSONArray(text[start:])
	}
	if extracted == "" {
		return text
	}
	return extracted
}

// ExtractJSONObject returns the first balanced JSON object in text, or "" if none
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	return extractJSONObject(text[start:])
}

func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans from an opening delimiter at text[0] to its matching
// close, ignoring delimiters inside JSON strings.
func extractBalanced(text string, open, closing byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
