// Package ingestion turns uploaded PDF CVs into model-ready text: type
// detection, text extraction, cleanup, and truncation.
package ingestion

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/jonathan/cv-screener/internal/types"
)

// IsPDF reports whether the content is a PDF, sniffing the bytes first and
// falling back to the file extension for empty content.
func IsPDF(name string, data []byte) bool {
	if len(data) > 0 && mimetype.Detect(data).Is("application/pdf") {
		return true
	}
	return types.HasPDFExt(name)
}

// ExtractText extracts plain text from a PDF held in memory. Individual page
// failures are skipped; a document that cannot be opened at all yields an
// empty string and scoring proceeds on it.
func ExtractText(data []byte) string {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		log.Warn().Err(err).Msg("failed to open PDF for extraction")
		return ""
	}
	defer doc.Close()

	var parts []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("failed to extract text from page")
			continue
		}
		parts = append(parts, text)
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// PageCount returns the PDF page count. The count is advisory: callers log
// failures and continue without it.
func PageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("pdf page count failed: %w", err)
	}
	return n, nil
}

// LoadCVFile reads a CV from disk into an in-memory upload record.
func LoadCVFile(path string) (types.CVFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CVFile{}, fmt.Errorf("failed to read CV file: %w", err)
	}

	return types.NewCVFile(filepath.Base(path), mimetype.Detect(data).String(), data), nil
}
