package screening

import (
	"errors"
	"fmt"
)

// Input validation failures carry the exact messages the screening API exposes.
var (
	// ErrNoFiles means the request had no CVs attached.
	ErrNoFiles = errors.New("No files uploaded.")
	// ErrNoQualities means the desired qualities text was blank.
	ErrNoQualities = errors.New("Qualities are required.")
)

// NonPDFError reports an upload whose name does not end in .pdf.
type NonPDFError struct {
	Name string
}

func (e *NonPDFError) Error() string {
	return fmt.Sprintf("Only PDFs allowed: %s", e.Name)
}

// ModelCallError wraps a failed model invocation for one candidate.
type ModelCallError struct {
	Candidate string
	Cause     error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed for %q: %v", e.Candidate, e.Cause)
}

func (e *ModelCallError) Unwrap() error {
	return e.Cause
}
