package linediff

import (
	"errors"
)

// ErrNoPending is returned by Accept and Reject when nothing is
// staged.
var ErrNoPending = errors.New("no pending change")

// Summary is the host-facing notification for a staged change.
type Summary struct {
	Description  string
	AddedCount   int
	DeletedCount int
}

// Recorder drives the Clean -> Pending -> Clean staging workflow for
// one document. A mutation while Pending extends the existing record
// rather than opening a new session; the diff is always recomputed
// against the text captured when the session opened.
type Recorder struct {
	pending  bool
	original string
	current  string
	desc     string
	count    int
	last     *Result
}

// Pending reports whether a change is staged.
func (r *Recorder) Pending() bool {
	return r.pending
}

// Changes returns how many mutations accumulated in the session.
func (r *Recorder) Changes() int {
	return r.count
}

// Record stages newText. The first call in a session captures oldText
// as the reconciliation base; later calls keep that base and only
// advance the current text.
func (r *Recorder) Record(oldText, newText, description string) *Result {
	if !r.pending {
		r.pending = true
		r.original = oldText
		r.count = 0
	}
	r.current = newText
	r.desc = description
	r.count++
	r.last = Diff(r.original, r.current)
	return r.last
}

// Result returns the diff of the staged session, or nil when Clean.
func (r *Recorder) Result() *Result {
	if !r.pending {
		return nil
	}
	return r.last
}

// Summary describes the staged session for the host.
func (r *Recorder) Summary() (Summary, bool) {
	if !r.pending {
		return Summary{}, false
	}
	return Summary{
		Description:  r.desc,
		AddedCount:   len(r.last.Added),
		DeletedCount: len(r.last.Deleted),
	}, true
}

// Accept finalizes the current text as persisted content and clears
// the session.
func (r *Recorder) Accept() (string, error) {
	if !r.pending {
		return "", ErrNoPending
	}
	text := r.current
	r.reset()
	return text, nil
}

// Reject restores the original text verbatim and clears the session,
// discarding everything accumulated since it opened.
func (r *Recorder) Reject() (string, error) {
	if !r.pending {
		return "", ErrNoPending
	}
	text := r.original
	r.reset()
	return text, nil
}

func (r *Recorder) reset() {
	*r = Recorder{}
}
