// Package session owns the mutable state of one screening form session: the
// collected files, the criteria text, the busy flag, and the latest results.
// All state is held in memory and replaced wholesale on each submission or
// reset; nothing is ever persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-screener/internal/criteria"
	"github.com/jonathan/cv-screener/internal/types"
)

// Session holds the state of one screening form session. All methods are
// safe for concurrent use; the session owns its state exclusively.
type Session struct {
	ID uuid.UUID

	mu        sync.Mutex
	files     []types.CVFile
	qualities string
	results   []types.Candidate
	lastError string
	busy      bool
	remote    bool
	lastUsed  time.Time
}

// New creates an empty session with a generated ID.
func New() *Session {
	return &Session{
		ID:       uuid.New(),
		lastUsed: time.Now(),
	}
}

// AddFiles merges new uploads into the session. Entries that are not
// PDF-like are skipped; duplicate names are dropped keeping the first-seen
// occurrence. Returns the number of files actually added.
func (s *Session) AddFiles(files ...types.CVFile) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	added := 0
	for _, f := range files {
		if !f.IsPDF() {
			continue
		}
		if s.hasName(f.Name) {
			continue
		}
		s.files = append(s.files, f)
		added++
	}
	return added
}

// RemoveFile removes exactly the entry matching name and revokes its source
// link. Reports whether an entry was removed; absence is not an error.
func (s *Session) RemoveFile(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	for i, f := range s.files {
		if f.Name == name {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return true
		}
	}
	return false
}

// Reset clears files, criteria text, results, and error state, revoking all
// source links.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.files = nil
	s.qualities = ""
	s.results = nil
	s.lastError = ""
}

// Files returns a copy of the collected files in insertion order.
func (s *Session) Files() []types.CVFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.CVFile, len(s.files))
	copy(out, s.files)
	return out
}

// FileByID resolves a source link: the upload's bytes while it is still part
// of the session, nothing once it has been removed or the session reset.
func (s *Session) FileByID(id uuid.UUID) (types.CVFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ID == id {
			return f, true
		}
	}
	return types.CVFile{}, false
}

// SetQualities stores the raw criteria text.
func (s *Session) SetQualities(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.qualities = text
}

// Qualities returns the raw criteria text.
func (s *Session) Qualities() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qualities
}

// SetRemote stores the remote-mode toggle.
func (s *Session) SetRemote(remote bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.remote = remote
}

// Remote returns the remote-mode toggle.
func (s *Session) Remote() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote
}

// Validate checks the session is submittable: at least one PDF upload and
// non-blank criteria text. The returned errors carry the exact user-facing
// messages.
func (s *Session) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.files) == 0 {
		return ErrNoPDFs
	}
	if criteria.IsBlank(s.qualities) {
		return ErrNoQualities
	}
	return nil
}

// Begin marks the start of a screening run. It fails with ErrBusy while a
// previous run is still outstanding, so submissions never overlap.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.busy {
		return ErrBusy
	}
	s.busy = true
	s.lastError = ""
	return nil
}

// Finish records the outcome of a screening run and clears the busy flag.
// On failure prior results are cleared and the error message retained; the
// session stays usable for resubmission.
func (s *Session) Finish(results []types.Candidate, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.busy = false
	if err != nil {
		s.results = nil
		s.lastError = err.Error()
		return
	}
	s.results = results
	s.lastError = ""
}

// Busy reports whether a screening run is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Results returns a copy of the latest ranked results.
func (s *Session) Results() []types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.Candidate, len(s.results))
	copy(out, s.results)
	return out
}

// LastError returns the message of the most recent failure, empty when the
// last run succeeded or none ran yet.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// LastUsed returns the time of the most recent mutation.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// hasName reports whether a file with the given name is already collected.
// Caller must hold the lock.
func (s *Session) hasName(name string) bool {
	for _, f := range s.files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// touch updates the idle timestamp. Caller must hold the lock.
func (s *Session) touch() {
	s.lastUsed = time.Now()
}
