package ingestion

import (
	"regexp"
	"strings"
)

// DefaultMaxCVChars caps how much extracted CV text reaches the model.
const DefaultMaxCVChars = 20000

var (
	multiSpace  = regexp.MustCompile(`[ \t]+`)
	excessBlank = regexp.MustCompile(`\n\n\n+`)
)

// CleanText cleans and normalizes extracted CV text while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Clean each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 3. Join and collapse excessive blank lines
	result := strings.Join(cleanedLines, "\n")
	result = excessBlank.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine collapses runs of internal whitespace while preserving leading
// indentation, which often carries section structure in extracted CVs.
func cleanLine(line string) string {
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)

	content := multiSpace.ReplaceAllString(strings.TrimSpace(trimmed), " ")
	if indent > 0 {
		return strings.Repeat(" ", indent) + content
	}
	return content
}

// TruncateForModel shortens text to at most roughly max characters by keeping
// the head and tail halves joined by an ellipsis line, so both the opening
// summary and the trailing sections of a long CV stay visible to the model.
func TruncateForModel(text string, max int) string {
	if max <= 0 {
		max = DefaultMaxCVChars
	}
	if len(text) <= max {
		return text
	}

	half := max / 2
	return text[:half] + "\n...\n" + text[len(text)-half:]
}
