package domain

import "time"

// Kind classifies a notification for rendering.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a transient user-facing status message. At most one
// exists at a time; a newer one replaces the old together with its expiry.
type Notification struct {
	Text      string
	Kind      Kind
	ExpiresAt time.Time
}
