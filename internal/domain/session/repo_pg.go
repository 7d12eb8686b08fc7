package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, source, user_agent, remote_ip, created_at, last_seen_at`

func (r *repoPG) scan(row pgx.Row) (*Session, error) {
	var s Session
	err := row.Scan(&s.ID, &s.Source, &s.UserAgent, &s.RemoteIP, &s.CreatedAt, &s.LastSeenAt)
	return &s, err
}

func (r *repoPG) Create(ctx context.Context, s *Session) error {
	s.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO tracking_session (id, source, user_agent, remote_ip)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, last_seen_at`,
		s.ID, s.Source, s.UserAgent, s.RemoteIP).Scan(&s.CreatedAt, &s.LastSeenAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM tracking_session WHERE id = $1`, id))
}

func (r *repoPG) Touch(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tracking_session SET last_seen_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Session, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tracking_session`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM tracking_session ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Session
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, nil
}
