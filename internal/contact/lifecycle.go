package contact

import "sync"

// Phase is the state of a form's submission lifecycle.
type Phase int

const (
	// PhaseIdle means nothing was submitted since the form was created.
	PhaseIdle Phase = iota
	// PhaseSubmitting means a submission is in flight.
	PhaseSubmitting
	// PhaseSucceeded means the last submission was stored.
	PhaseSucceeded
	// PhaseFailed means the last submission failed.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// lifecycle admits one request at a time: begin moves to PhaseSubmitting and
// only the request it returns can end it with succeed or fail.
type lifecycle struct {
	mu    sync.Mutex
	phase Phase
	seq   uint64
}

// request is a running submission handed out by lifecycle.begin.
type request struct {
	l    *lifecycle
	seq  uint64
	prev Phase
}

func (l *lifecycle) begin() (*request, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == PhaseSubmitting {
		return nil, ErrSubmissionInFlight
	}
	prev := l.phase
	l.phase = PhaseSubmitting
	l.seq++

	return &request{l: l, seq: l.seq, prev: prev}, nil
}

func (l *lifecycle) current() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.phase
}

func (r *request) end(phase Phase) {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	if r.l.seq == r.seq && r.l.phase == PhaseSubmitting {
		r.l.phase = phase
	}
}

func (r *request) succeed() { r.end(PhaseSucceeded) }
func (r *request) fail()    { r.end(PhaseFailed) }

// abort ends a request that never reached the submitter.
func (r *request) abort() { r.end(r.prev) }
