// Package types provides type definitions for structured data used throughout the cv-screener system.
package types

import (
	"strings"

	"github.com/google/uuid"
)

// CVFile represents a single uploaded CV held in memory for the lifetime of a session.
type CVFile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	Data        []byte    `json:"-"`
}

// NewCVFile creates a CVFile with a generated per-upload ID.
func NewCVFile(name, contentType string, data []byte) CVFile {
	return CVFile{
		ID:          uuid.New(),
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
		Data:        data,
	}
}

// StrippedName returns the file name with a trailing ".pdf" extension removed.
func (f CVFile) StrippedName() string {
	return StripPDFExt(f.Name)
}

// IsPDF reports whether the file looks like a PDF by declared content type or extension.
func (f CVFile) IsPDF() bool {
	if strings.EqualFold(strings.TrimSpace(f.ContentType), "application/pdf") {
		return true
	}
	return HasPDFExt(f.Name)
}

// HasPDFExt reports whether name ends in ".pdf", case-insensitively.
func HasPDFExt(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// StripPDFExt removes a trailing ".pdf" extension from name, case-insensitively.
// Names without the extension are returned unchanged.
func StripPDFExt(name string) string {
	if HasPDFExt(name) {
		return name[:len(name)-len(".pdf")]
	}
	return name
}
