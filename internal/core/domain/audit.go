package domain

import "time"

// SecurityEventKind names a security decision worth keeping a trail of.
type SecurityEventKind string

const (
	EventUnauthenticated SecurityEventKind = "unauthenticated"
	EventRoleDenied      SecurityEventKind = "role_denied"
	EventCSRFRejected    SecurityEventKind = "csrf_rejected"
	EventLogin           SecurityEventKind = "login"
	EventLogout          SecurityEventKind = "logout"
)

// SecurityEvent is an append-only audit record. It never carries tokens or
// credential contents.
type SecurityEvent struct {
	Kind      SecurityEventKind `json:"kind" bson:"kind"`
	SessionID string            `json:"session_id,omitempty" bson:"session_id,omitempty"`
	UserID    string            `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Role      Role              `json:"role,omitempty" bson:"role,omitempty"`
	Method    string            `json:"method,omitempty" bson:"method,omitempty"`
	Path      string            `json:"path" bson:"path"`
	RequestID string            `json:"request_id,omitempty" bson:"request_id,omitempty"`
	At        time.Time         `json:"at" bson:"at"`
}
