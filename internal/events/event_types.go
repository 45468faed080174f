package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAdminLoggedIn  EventType = "admin_logged_in"
	EventAdminLoggedOut EventType = "admin_logged_out"
	EventPostCreated    EventType = "post_created"
	EventPostDeleted    EventType = "post_deleted"
)

// Event represents an auditable action emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Actor     string    `json:"actor,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	Title string `json:"title"`
}
