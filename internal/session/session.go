package session

import (
	"context"
	"time"
)

// IdleTimeout is the fixed window after which a session is treated as
// expired and replaced, never resumed.
const IdleTimeout = 30 * time.Minute

// Session is the per-identity conversational context. Exactly one exists
// per identity at a time; handlers mutate a working copy and the engine
// persists it back only when the event succeeds.
type Session struct {
	State      string    `json:"state"`
	LastActive time.Time `json:"last_active"`

	Name           string `json:"name,omitempty"`
	Booth          string `json:"booth,omitempty"`
	Epic           string `json:"epic,omitempty"`
	EpicUnverified string `json:"epic_unverified,omitempty"`

	// In-progress wizard scratch fields.
	Category         string `json:"category,omitempty"`
	Description      string `json:"description,omitempty"`
	PhotoRef         string `json:"photo_ref,omitempty"`
	Suggestion       string `json:"suggestion,omitempty"`
	VolunteerRole    string `json:"volunteer_role,omitempty"`
	PhotoCategory    string `json:"photo_category,omitempty"`
	PhotoDescription string `json:"photo_description,omitempty"`

	// Pending holds a suspended wizard finalization while the deferred
	// identity-capture step runs; it is consumed exactly once.
	Pending *Continuation `json:"pending,omitempty"`

	// PostFlowSkipped marks that the deferred capture already ran for
	// this session, so location steps finalize immediately from now on.
	PostFlowSkipped bool `json:"post_flow_skipped,omitempty"`
}

// Continuation is the stashed location-or-skip decision of a suspended
// wizard, plus which wizard was in progress.
type Continuation struct {
	Flow      string   `json:"flow"`
	Latitude  *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"lon,omitempty"`
	Skipped   bool     `json:"skipped"`
}

// Expired reports whether the session's idle window has elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.LastActive) > IdleTimeout
}

// Store holds sessions keyed by sender identity. Get returns nil for an
// unknown or expired identity; expiry is evaluated lazily at access time.
type Store interface {
	Get(ctx context.Context, identity string) (*Session, error)
	Put(ctx context.Context, identity string, sess *Session) error
	Touch(ctx context.Context, identity string, now time.Time) error
}
