// Package criteria handles the free-text "desired qualities" input: token
// extraction for scoring notes and bullet normalization for model prompts.
package criteria

import "strings"

// Tokens splits the qualities text into individual criteria terms.
// Delimiters are newlines, commas, bullet characters, and hyphens.
// Tokens are trimmed and empties discarded; order is preserved.
func Tokens(text string) []string {
	if IsBlank(text) {
		return nil
	}

	parts := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', ',', '•', '-':
			return true
		}
		return false
	})

	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Bullets normalizes the qualities text into one "- item" line per non-blank
// input line, the form the scoring prompt expects. Text with no usable lines
// falls back to the trimmed input.
func Bullets(text string) string {
	lines := strings.Split(text, "\n")
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, "- "+trimmed)
		}
	}
	if len(items) == 0 {
		return strings.TrimSpace(text)
	}
	return strings.Join(items, "\n")
}

// IsBlank reports whether the qualities text is empty after trimming.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
