// Package queue defines message payloads exchanged over the message broker.
package queue

// Actions carried by MovieChangedEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// MovieChangedEvent is published after the movie API accepted a mutation
// made through the console.  Replicas use it to drop their cached catalog.
type MovieChangedEvent struct {
	Action     string `json:"action"`            // created | updated | deleted
	Name       string `json:"name"`              // movie name, the API's key
	Origin     string `json:"origin"`            // id of the publishing replica
	UserID     string `json:"user_id,omitempty"` // userId claim of the actor, if readable
	OccurredAt string `json:"occurred_at"`       // RFC 3339, UTC
}
