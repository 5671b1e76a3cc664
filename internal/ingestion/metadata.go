package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Metadata describes an extracted CV for logging and audit output.
type Metadata struct {
	Timestamp string `json:"timestamp"`           // RFC3339 format
	Hash      string `json:"hash"`                // SHA256 hex digest of the extracted text
	Chars     int    `json:"chars"`               // Length of the extracted text
	Pages     int    `json:"pages,omitempty"`     // PDF page count, when available
	Truncated bool   `json:"truncated,omitempty"` // Whether the text was cut for the model
}

// NewMetadata creates Metadata for extracted CV text with the current timestamp.
func NewMetadata(text string, pages int) *Metadata {
	return &Metadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(text),
		Chars:     len(text),
		Pages:     pages,
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
