package ranking

// RemoteError represents a non-success response from the screening service.
// The message is shown to the user verbatim, so Error returns exactly the
// server-provided body text (or the status fallback).
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}
