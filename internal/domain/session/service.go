package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Start issues a new tracking session for a website visit.
func (s *Service) Start(ctx context.Context, source, userAgent, remoteIP string) (*Session, error) {
	sess := &Session{}
	if source != "" {
		sess.Source = &source
	}
	if userAgent != "" {
		sess.UserAgent = &userAgent
	}
	if remoteIP != "" {
		sess.RemoteIP = &remoteIP
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// Touch marks the session as recently seen. An unparseable or unknown id
// is an error: submissions must carry a session we actually issued.
func (s *Service) Touch(ctx context.Context, id string) error {
	sid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	return s.repo.Touch(ctx, sid)
}
