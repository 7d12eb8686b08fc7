package intake

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type submissionRepoPG struct{ pool *pgxpool.Pool }

func NewSubmissionRepoPG(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepoPG{pool: pool}
}

const subCols = `id, session_id, first_name, last_name, phone, issue_type,
	location, insurance_type, status, created_at`

func (r *submissionRepoPG) scan(row pgx.Row) (*Submission, error) {
	var s Submission
	err := row.Scan(&s.ID, &s.SessionID, &s.FirstName, &s.LastName, &s.Phone,
		&s.IssueType, &s.Location, &s.InsuranceType, &s.Status, &s.CreatedAt)
	return &s, err
}

func (r *submissionRepoPG) Create(ctx context.Context, s *Submission) error {
	s.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO intake_submission (id, session_id, first_name, last_name,
			phone, issue_type, location, insurance_type, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		s.ID, s.SessionID, s.FirstName, s.LastName, s.Phone,
		s.IssueType, s.Location, s.InsuranceType, s.Status).Scan(&s.CreatedAt)
}

func (r *submissionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+subCols+` FROM intake_submission WHERE id = $1`, id))
}

func (r *submissionRepoPG) List(ctx context.Context, limit, offset int) ([]*Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM intake_submission`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+subCols+` FROM intake_submission ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Submission
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}

func (r *submissionRepoPG) ListByLocation(ctx context.Context, location string, limit, offset int) ([]*Submission, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM intake_submission WHERE location = $1`, location).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+subCols+` FROM intake_submission WHERE location = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, location, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Submission
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}
