package dynamo

import (
	"context"

	"github.com/tips-admin-api/internal/domain"
)

// SessionRepo stores login sessions. PK: session_id.
type SessionRepo struct {
	t table[domain.Session]
}

func NewSessionRepo(api API, tableName string) *SessionRepo {
	return &SessionRepo{t: table[domain.Session]{api: api, name: tableName, kind: "session"}}
}

func (r *SessionRepo) Put(ctx context.Context, s *domain.Session) error { return r.t.put(ctx, s) }

// Get reads with strong consistency so a logout is seen by the very next request.
func (r *SessionRepo) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	return r.t.get(ctx, strKey("session_id", sessionID), true)
}

// Disable marks the session as ended. Requests still carrying its token resolve as EXPIRED.
func (r *SessionRepo) Disable(ctx context.Context, sessionID string) error {
	return r.t.update(ctx, strKey("session_id", sessionID), map[string]interface{}{fieldEnable: false})
}
