package domain

import "time"

// SessionStatus is the health of an authenticated session as seen by the page guards.
type SessionStatus string

const (
	SessionActive  SessionStatus = "ACTIVE"
	SessionExpired SessionStatus = "EXPIRED"
)

// Session is the persisted login session row.
type Session struct {
	SessionID string    `json:"id" dynamodbav:"session_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Enable    bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
	User      *User     `json:"user,omitempty" dynamodbav:"-"`
}

// SessionState is the read-only view of the caller's session that guards inspect.
// An empty Token means the caller is not logged in.
type SessionState struct {
	Token      string        `json:"-"`
	Status     SessionStatus `json:"status,omitempty"`
	RedirectTo string        `json:"redirect_to,omitempty"`
	UserID     string        `json:"user_id,omitempty"`
	SessionID  string        `json:"-"`
}

func (s SessionState) LoggedIn() bool { return s.Token != "" }

// Expired reports whether the session was flagged EXPIRED. Unknown statuses count as active.
func (s SessionState) Expired() bool { return s.Status == SessionExpired }
