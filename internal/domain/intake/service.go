package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoSubmissionLog is returned by the query methods when the service was
// wired without a submission repository.
var ErrNoSubmissionLog = errors.New("submission log not configured")

// Saver forwards a submission payload to the intake save endpoint.
type Saver interface {
	Save(ctx context.Context, p Payload) error
}

// SessionChecker verifies that a tracking session exists and marks it as
// recently seen.
type SessionChecker interface {
	Touch(ctx context.Context, id string) error
}

type Service struct {
	saver    Saver
	sessions SessionChecker // optional: nil trusts any non-empty session id
	subs     SubmissionRepository
	fallback string
	logger   zerolog.Logger
}

func NewService(saver Saver, sessions SessionChecker, subs SubmissionRepository, fallbackPhone string, logger zerolog.Logger) *Service {
	return &Service{
		saver:    saver,
		sessions: sessions,
		subs:     subs,
		fallback: fallbackPhone,
		logger:   logger,
	}
}

// Submit validates the draft, builds the payload, and forwards it to the
// save endpoint. Session and validation failures are rejected before any
// network call. On success the submission is recorded locally for staff
// triage; a local recording failure is logged but does not fail the submit,
// since the upstream save already succeeded.
func (s *Service) Submit(ctx context.Context, draft Draft, sessionID string) (*Submission, error) {
	if sessionID == "" {
		return nil, ErrMissingSession
	}
	if s.sessions != nil {
		if err := s.sessions.Touch(ctx, sessionID); err != nil {
			return nil, ErrMissingSession
		}
	}

	normalized, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	payload := BuildPayload(normalized, sessionID)
	if err := s.saver.Save(ctx, payload); err != nil {
		return nil, &SubmissionError{FallbackPhone: s.fallback, Err: err}
	}

	sub := &Submission{
		SessionID:     sessionID,
		FirstName:     payload.PatientData.FirstName,
		LastName:      payload.PatientData.LastName,
		Phone:         payload.PatientData.Phone,
		IssueType:     normalized.IssueType,
		Location:      normalized.Location,
		InsuranceType: payload.InsuranceData.InsuranceType,
		Status:        payload.Status,
	}
	if s.subs != nil {
		if err := s.subs.Create(ctx, sub); err != nil {
			s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to record intake submission")
		}
	}
	return sub, nil
}

func (s *Service) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	if s.subs == nil {
		return nil, ErrNoSubmissionLog
	}
	return s.subs.GetByID(ctx, id)
}

func (s *Service) ListSubmissions(ctx context.Context, limit, offset int) ([]*Submission, int, error) {
	if s.subs == nil {
		return nil, 0, ErrNoSubmissionLog
	}
	return s.subs.List(ctx, limit, offset)
}

func (s *Service) ListSubmissionsByLocation(ctx context.Context, location string, limit, offset int) ([]*Submission, int, error) {
	if s.subs == nil {
		return nil, 0, ErrNoSubmissionLog
	}
	return s.subs.ListByLocation(ctx, location, limit, offset)
}
