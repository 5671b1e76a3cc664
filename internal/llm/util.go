// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock normalizes a model reply down to its JSON payload.
// LLMs often wrap JSON in ```json ... ``` blocks or surround it with
// conversational text even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		// Handle generic ``` ... ``` blocks
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// If first line looks like a language identifier (no spaces, short), skip it
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Slice away any prose around the first JSON object or array
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if extracted := extractJSONObject(text); extracted != "" {
			return extracted
		}
	} else if arrStart >= 0 {
		if extracted := extractJSONArray(text); extracted != "" {
			return extracted
		}
	}

	return text
}

// extractJSONObject returns the outermost {...} block in text, or "" when none exists.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// extractJSONArray returns the outermost [...] block in text, or "" when none exists.
func extractJSONArray(text string) string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
