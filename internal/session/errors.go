package session

import "errors"

// Validation and state errors. The message text of the validation errors is
// user-facing and must stay byte-for-byte stable.
var (
	// ErrNoPDFs indicates the session holds no PDF uploads.
	ErrNoPDFs = errors.New("Please add at least one PDF CV.")
	// ErrNoQualities indicates the criteria text is blank.
	ErrNoQualities = errors.New("Please enter the desired candidate qualities.")
	// ErrBusy indicates a screening run is already in flight for the session.
	ErrBusy = errors.New("screening already in progress")
)
