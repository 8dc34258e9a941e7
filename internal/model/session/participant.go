package session

// Role distinguishes the audience from the producer running the session.
type Role string

const (
	RoleVoter     Role = "voter"
	RoleModerator Role = "moderator"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleVoter || r == RoleModerator
}

// Participant binds a live connection to a session under a self-declared name.
// The connection id doubles as the participant id for the session's lifetime.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	SessionID string `json:"sessionId"`
}
