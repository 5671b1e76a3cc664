// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-screener/internal/criteria"
	"github.com/jonathan/cv-screener/internal/ranking"
	"github.com/jonathan/cv-screener/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCriteria outputs the qualities text and the terms parsed from it.
func (p *Printer) PrintCriteria(qualities string) {
	if criteria.IsBlank(qualities) {
		return
	}

	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(qualities))
	sb.WriteString("\n\n")

	tokens := criteria.Tokens(qualities)
	sb.WriteString(fmt.Sprintf("Parsed %d terms:\n", len(tokens)))
	count := min(len(tokens), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", tokens[i]))
	}
	if len(tokens) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(tokens)-maxItemsToShow))
	}

	p.printBox("SCREENING CRITERIA", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFiles outputs the CVs collected for screening.
func (p *Printer) PrintFiles(files []types.CVFile) {
	if len(files) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Collected %d CVs:\n\n", len(files)))

	count := min(len(files), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := files[i]
		name := f.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s (%.1f KB)\n", name, float64(f.Size)/1024))
	}

	if len(files) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more files", len(files)-maxItemsToShow))
	}

	p.printBox("COLLECTED CVS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the ranked screening results.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCandidates(candidates []types.Candidate) {
	if len(candidates) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO CANDIDATES RANKED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Ranked %d candidates:\n\n", len(candidates)))

	for i, c := range candidates {
		name := c.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, name))
		sb.WriteString(fmt.Sprintf("    Score: %d / 100\n", ranking.RoundScore(c.Score)))
		if c.Notes != "" {
			notes := c.Notes
			if len(notes) > 45 {
				notes = notes[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Notes: %s\n", notes))
		}
		if i < len(candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}
