// Package types provides type definitions for structured data used throughout the cv-screener system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// ScreenOptions represents the options for a one-shot screening run.
type ScreenOptions struct {
	// Qualities is the raw desired-qualities text. Emptiness is checked by
	// the session validation so the user-facing message stays consistent.
	Qualities string `json:"qualities"`
	// RemoteURL selects the remote strategy when non-empty.
	RemoteURL   string `json:"remote_url,omitempty" validate:"omitempty,url"`
	OutputJSON  bool   `json:"output_json,omitempty"`
	SkipConfirm bool   `json:"skip_confirm,omitempty"`
}

// Validate validates the ScreenOptions using the validator.
func (o *ScreenOptions) Validate() error {
	validate := validator.New()
	return validate.Struct(o)
}
