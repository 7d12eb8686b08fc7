package session

import (
	"time"

	"github.com/google/uuid"
)

// Session maps to the tracking_session table. One session correlates a
// single website visit with any intake it produces.
type Session struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Source     *string   `db:"source" json:"source,omitempty"`
	UserAgent  *string   `db:"user_agent" json:"user_agent,omitempty"`
	RemoteIP   *string   `db:"remote_ip" json:"remote_ip,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	LastSeenAt time.Time `db:"last_seen_at" json:"last_seen_at"`
}
