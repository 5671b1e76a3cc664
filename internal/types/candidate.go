// Package types provides type definitions for structured data used throughout the cv-screener system.
package types

import "github.com/google/uuid"

// Candidate represents a single ranked screening result.
type Candidate struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Notes     string  `json:"notes,omitempty"`
	SourceURL string  `json:"url,omitempty"`
	// FileID links the candidate back to the session upload it was produced
	// from. Zero when no upload matched (e.g. an unmatched remote record).
	FileID uuid.UUID `json:"-"`
}
