package intake

import (
	"context"
	"errors"
	"sync"
)

// View states of a form instance.
const (
	StateEditing    = "editing"
	StateSubmitting = "submitting"
	StateSuccess    = "success"
)

// Errors specific to the form session API.
var (
	ErrFormNotFound   = errors.New("form not found")
	ErrUnknownField   = errors.New("unknown field")
	ErrFormFinished   = errors.New("form already submitted")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// Form holds one visitor's draft and view state. It enforces the single
// concurrency invariant of the intake flow: at most one outstanding submit
// request per form instance.
type Form struct {
	mu        sync.Mutex
	sessionID string
	draft     Draft
	state     string
	lastError string
	svc       *Service
}

// NewForm creates a form in the editing state with the default draft.
func NewForm(svc *Service, sessionID string) *Form {
	return &Form{
		sessionID: sessionID,
		draft:     NewDraft(),
		state:     StateEditing,
		svc:       svc,
	}
}

// FormView is the serializable snapshot of a form instance.
type FormView struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Draft     Draft  `json:"draft"`
	Error     string `json:"error,omitempty"`
}

// View returns a snapshot of the current draft and state.
func (f *Form) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormView{
		SessionID: f.sessionID,
		State:     f.state,
		Draft:     f.draft,
		Error:     f.lastError,
	}
}

// UpdateField overwrites one draft attribute. No validation happens here;
// that is deferred to submit time. Editing clears any error annotation.
// Updates are rejected while a submit is in flight or after success.
func (f *Form) UpdateField(field string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSuccess:
		return ErrFormFinished
	}

	switch field {
	case "full_name":
		s, ok := value.(string)
		if !ok {
			return ErrUnknownField
		}
		f.draft.FullName = s
	case "phone":
		s, ok := value.(string)
		if !ok {
			return ErrUnknownField
		}
		f.draft.Phone = s
	case "issue_type":
		s, ok := value.(string)
		if !ok {
			return ErrUnknownField
		}
		f.draft.IssueType = s
	case "location":
		s, ok := value.(string)
		if !ok {
			return ErrUnknownField
		}
		f.draft.Location = s
	case "consent_privacy":
		b, ok := value.(bool)
		if !ok {
			return ErrUnknownField
		}
		f.draft.ConsentPrivacy = b
	case "consent_communication":
		b, ok := value.(bool)
		if !ok {
			return ErrUnknownField
		}
		f.draft.ConsentCommunication = b
	default:
		return ErrUnknownField
	}

	f.lastError = ""
	return nil
}

// Submit runs the submit flow for the current draft. While the request is
// in flight the form is in the submitting state and further submits are
// inert. Success is terminal; any failure returns the form to editing with
// an error annotation, keeping the draft for correction and resubmission.
func (f *Form) Submit(ctx context.Context) (FormView, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return f.View(), ErrSubmitInFlight
	case StateSuccess:
		f.mu.Unlock()
		return f.View(), ErrFormFinished
	}
	f.state = StateSubmitting
	f.lastError = ""
	draft := f.draft
	sessionID := f.sessionID
	f.mu.Unlock()

	_, err := f.svc.Submit(ctx, draft, sessionID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		f.lastError = err.Error()
		return FormView{SessionID: f.sessionID, State: f.state, Draft: f.draft, Error: f.lastError}, err
	}
	f.state = StateSuccess
	return FormView{SessionID: f.sessionID, State: f.state, Draft: f.draft}, nil
}

// FormManager holds the active form instances, one per tracking session.
type FormManager struct {
	mu    sync.RWMutex
	forms map[string]*Form
	svc   *Service
}

func NewFormManager(svc *Service) *FormManager {
	return &FormManager{
		forms: make(map[string]*Form),
		svc:   svc,
	}
}

// Open returns the form for the session, creating it on first use.
func (m *FormManager) Open(sessionID string) *Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.forms[sessionID]; ok {
		return f
	}
	f := NewForm(m.svc, sessionID)
	m.forms[sessionID] = f
	return f
}

// Get returns the form for the session if one exists.
func (m *FormManager) Get(sessionID string) (*Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.forms[sessionID]
	if !ok {
		return nil, ErrFormNotFound
	}
	return f, nil
}

// Discard drops the form for the session. Called when the visitor navigates
// away or after a successful submission is acknowledged.
func (m *FormManager) Discard(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.forms, sessionID)
}
