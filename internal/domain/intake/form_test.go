package intake

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func fillValid(f *Form) {
	f.UpdateField("full_name", "John Smith")
	f.UpdateField("phone", "7802508188")
}

func TestForm_InitialState(t *testing.T) {
	svc, _, _ := newTestService()
	f := NewForm(svc, "abc123")
	view := f.View()
	if view.State != StateEditing {
		t.Errorf("expected editing, got %s", view.State)
	}
	if view.Draft.IssueType != IssueWorkInjury {
		t.Errorf("expected default issue type, got %s", view.Draft.IssueType)
	}
}

func TestForm_UpdateField(t *testing.T) {
	svc, _, _ := newTestService()
	f := NewForm(svc, "abc123")
	if err := f.UpdateField("issue_type", IssueSports); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.View().Draft.IssueType != IssueSports {
		t.Errorf("expected issue type updated")
	}
}

func TestForm_UpdateField_Unknown(t *testing.T) {
	svc, _, _ := newTestService()
	f := NewForm(svc, "abc123")
	if err := f.UpdateField("favourite_colour", "red"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestForm_UpdateField_WrongType(t *testing.T) {
	svc, _, _ := newTestService()
	f := NewForm(svc, "abc123")
	if err := f.UpdateField("consent_privacy", "yes"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField for non-bool consent, got %v", err)
	}
}

func TestForm_Submit_Success(t *testing.T) {
	svc, saver, _ := newTestService()
	f := NewForm(svc, "abc123")
	fillValid(f)

	view, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateSuccess {
		t.Errorf("expected success, got %s", view.State)
	}
	if saver.calls != 1 {
		t.Errorf("expected 1 save call, got %d", saver.calls)
	}
}

func TestForm_Submit_SuccessIsTerminal(t *testing.T) {
	svc, _, _ := newTestService()
	f := NewForm(svc, "abc123")
	fillValid(f)
	f.Submit(context.Background())

	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrFormFinished) {
		t.Errorf("expected ErrFormFinished, got %v", err)
	}
	if err := f.UpdateField("phone", "5555555555"); !errors.Is(err, ErrFormFinished) {
		t.Errorf("expected ErrFormFinished on edit after success, got %v", err)
	}
}

func TestForm_Submit_ValidationFailureKeepsEditing(t *testing.T) {
	svc, saver, _ := newTestService()
	f := NewForm(svc, "abc123")
	// Draft still has empty name/phone.
	view, err := f.Submit(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if view.State != StateEditing {
		t.Errorf("expected editing after failure, got %s", view.State)
	}
	if view.Error == "" {
		t.Error("expected error annotation on view")
	}
	if saver.calls != 0 {
		t.Errorf("expected no save call, got %d", saver.calls)
	}
}

func TestForm_Submit_FailureThenRetry(t *testing.T) {
	svc, saver, _ := newTestService()
	f := NewForm(svc, "abc123")
	fillValid(f)

	saver.err = errors.New("boom")
	if _, err := f.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if f.View().State != StateEditing {
		t.Errorf("expected editing after failure, got %s", f.View().State)
	}

	saver.err = nil
	view, err := f.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.State != StateSuccess {
		t.Errorf("expected success, got %s", view.State)
	}
	if saver.calls != 2 {
		t.Errorf("expected 2 independent requests, got %d", saver.calls)
	}
}

func TestForm_Submit_EditClearsError(t *testing.T) {
	svc, _, _ := newTestService()
	f := NewForm(svc, "abc123")
	f.Submit(context.Background()) // fails validation
	if f.View().Error == "" {
		t.Fatal("expected error annotation")
	}
	f.UpdateField("full_name", "John Smith")
	if f.View().Error != "" {
		t.Error("expected error cleared on edit")
	}
}

// blockingSaver holds submissions until released, to exercise the
// single-in-flight guard.
type blockingSaver struct {
	entered chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingSaver) Save(_ context.Context, _ Payload) error {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func TestForm_Submit_SingleInFlight(t *testing.T) {
	saver := &blockingSaver{entered: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewService(saver, nil, newMockSubmissionRepo(), "780-250-8188", zerolog.Nop())
	f := NewForm(svc, "abc123")
	fillValid(f)

	done := make(chan struct{})
	go func() {
		f.Submit(context.Background())
		close(done)
	}()
	<-saver.entered

	// While the first submit is in flight, further submits are inert and
	// edits are rejected.
	if _, err := f.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight, got %v", err)
	}
	if err := f.UpdateField("phone", "5555555555"); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("expected ErrSubmitInFlight on edit, got %v", err)
	}
	if f.View().State != StateSubmitting {
		t.Errorf("expected submitting, got %s", f.View().State)
	}

	close(saver.release)
	<-done

	if saver.calls != 1 {
		t.Errorf("expected exactly 1 outstanding request, got %d", saver.calls)
	}
	if f.View().State != StateSuccess {
		t.Errorf("expected success, got %s", f.View().State)
	}
}

// ── FormManager ──

func TestFormManager_OpenIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService()
	m := NewFormManager(svc)
	f1 := m.Open("abc123")
	f1.UpdateField("full_name", "John Smith")
	f2 := m.Open("abc123")
	if f2.View().Draft.FullName != "John Smith" {
		t.Error("expected same form instance for same session")
	}
}

func TestFormManager_GetUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	m := NewFormManager(svc)
	if _, err := m.Get("nope"); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("expected ErrFormNotFound, got %v", err)
	}
}

func TestFormManager_Discard(t *testing.T) {
	svc, _, _ := newTestService()
	m := NewFormManager(svc)
	m.Open("abc123")
	m.Discard("abc123")
	if _, err := m.Get("abc123"); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("expected ErrFormNotFound after discard, got %v", err)
	}
}
