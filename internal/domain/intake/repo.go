package intake

import (
	"context"

	"github.com/google/uuid"
)

type SubmissionRepository interface {
	Create(ctx context.Context, s *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	List(ctx context.Context, limit, offset int) ([]*Submission, int, error)
	ListByLocation(ctx context.Context, location string, limit, offset int) ([]*Submission, int, error)
}
