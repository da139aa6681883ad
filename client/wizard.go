package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core/user"
)

// Step is the wizard's current screen. ClassSelect is only reachable when
// the selected role is student.
type Step int

const (
	StepRole Step = iota
	StepClassSelect
	StepUserSelect
	StepPINEntry
)

func (s Step) String() string {
	switch s {
	case StepRole:
		return "role"
	case StepClassSelect:
		return "class-select"
	case StepUserSelect:
		return "user-select"
	case StepPINEntry:
		return "pin-entry"
	}
	return "invalid"
}

const pinLength = 4

// Inline messages shown on the PIN step.
const (
	msgInvalidPIN  = "Invalid PIN. Please try again."
	msgLoginFailed = "Login failed. Please try again."
)

// Wizard narrows the login funnel (role, optional class, candidate, PIN)
// before delegating to the session controller. It is a UX funnel, not a
// security boundary; the server is authoritative.
//
// Fetches and the login call run on their own goroutines so the user can
// navigate Back during a slow response. A per-wizard sequence number
// discards any fetch that resolves after its selection was superseded.
type Wizard struct {
	ctrl      *SessionController
	transport Transport

	mu          sync.Mutex
	step        Step
	role        user.Role
	className   string
	candidateID int
	pin         string
	errMsg      string
	classes     []ClassOption
	candidates  []Candidate
	fetching    bool
	fetchSeq    uint64
	submitting  bool
	done        bool
	identity    Identity
}

func NewWizard(ctrl *SessionController, transport Transport) *Wizard {
	return &Wizard{
		ctrl:      ctrl,
		transport: transport,
		step:      StepRole,
	}
}

// SelectRole records the role and advances: students pick a class first,
// everyone else goes straight to the candidate list.
func (w *Wizard) SelectRole(ctx context.Context, role user.Role) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepRole || !role.Valid() {
		return
	}

	w.role = role
	w.errMsg = ""
	if role == user.RoleStudent {
		w.step = StepClassSelect
		w.startClassFetchLocked(ctx)
		return
	}
	w.step = StepUserSelect
	w.startCandidateFetchLocked(ctx)
}

func (w *Wizard) SelectClass(ctx context.Context, className string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepClassSelect {
		return
	}

	w.className = className
	w.errMsg = ""
	w.step = StepUserSelect
	w.startCandidateFetchLocked(ctx)
}

func (w *Wizard) SelectCandidate(id int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepUserSelect {
		return
	}

	w.candidateID = id
	w.pin = ""
	w.errMsg = ""
	w.step = StepPINEntry
}

// Back rewinds one step, clearing what the abandoned step had collected.
// Ignored while a login is in flight.
func (w *Wizard) Back(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return
	}

	switch w.step {
	case StepClassSelect:
		w.step = StepRole
		w.role = ""
		w.className = ""
		w.classes = nil
		w.bumpSeqLocked()
	case StepUserSelect:
		w.candidates = nil
		w.bumpSeqLocked()
		if w.role == user.RoleStudent {
			w.step = StepClassSelect
			w.className = ""
			w.startClassFetchLocked(ctx)
		} else {
			w.step = StepRole
			w.role = ""
		}
	case StepPINEntry:
		w.step = StepUserSelect
		w.candidateID = 0
		w.pin = ""
		w.errMsg = ""
	}
}

// Input appends one PIN digit. Non-digits are discarded, the buffer never
// exceeds four digits, and the fourth digit triggers exactly one login call;
// further input is ignored until that call resolves.
func (w *Wizard) Input(ctx context.Context, ch rune) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepPINEntry || w.submitting || w.done {
		return
	}
	if ch < '0' || ch > '9' {
		return
	}
	if len(w.pin) >= pinLength {
		return
	}

	w.pin += string(ch)
	if len(w.pin) == pinLength {
		w.submitting = true
		w.errMsg = ""
		go w.submit(ctx, w.candidateID, w.pin)
	}
}

func (w *Wizard) submit(ctx context.Context, candidateID int, pin string) {
	err := w.ctrl.Login(ctx, candidateID, pin)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err == nil {
		w.done = true
		w.identity = w.ctrl.Snapshot().Identity
		return
	}

	// candidate selection survives a failed attempt
	w.pin = ""
	if errors.Cause(err) == ErrInvalidCredential {
		w.errMsg = msgInvalidPIN
	} else {
		w.errMsg = msgLoginFailed
	}
}

// Fetches

func (w *Wizard) startClassFetchLocked(ctx context.Context) {
	w.classes = nil
	w.fetching = true
	seq := w.bumpSeqLocked()
	go func() {
		classes := w.transport.PublicClasses(ctx)
		w.applyClasses(seq, classes)
	}()
}

func (w *Wizard) startCandidateFetchLocked(ctx context.Context) {
	w.candidates = nil
	w.fetching = true
	seq := w.bumpSeqLocked()
	role, className := w.role, w.className
	go func() {
		candidates := w.transport.PublicCandidates(ctx, role, className)
		w.applyCandidates(seq, candidates)
	}()
}

func (w *Wizard) bumpSeqLocked() uint64 {
	w.fetchSeq++
	return w.fetchSeq
}

// applyClasses installs a resolved class list unless the fetch was
// superseded by a newer selection.
func (w *Wizard) applyClasses(seq uint64, classes []ClassOption) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.fetchSeq {
		return // stale
	}
	w.classes = classes
	w.fetching = false
}

func (w *Wizard) applyCandidates(seq uint64, candidates []Candidate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.fetchSeq {
		return // stale
	}
	w.candidates = candidates
	w.fetching = false
}

// Read accessors

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Role() user.Role {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.role
}

func (w *Wizard) ClassName() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.className
}

func (w *Wizard) CandidateID() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.candidateID
}

func (w *Wizard) PIN() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pin
}

func (w *Wizard) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

func (w *Wizard) Classes() []ClassOption {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.classes
}

func (w *Wizard) Candidates() []Candidate {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.candidates
}

func (w *Wizard) Fetching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fetching
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Done reports whether login succeeded; the wizard is finished and the
// caller navigates to DashboardPath(identity.Role).
func (w *Wizard) Done() (Identity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.identity, w.done
}
