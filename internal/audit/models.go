// Package audit keeps an append-only trail of registry mutations: who was
// created and when numbers were recomputed. The trail is best-effort; it never
// blocks or fails the operation it records.
package audit

import "time"

const (
	ActionPersonCreated     = "person.created"
	ActionNumbersRecomputed = "numbers.recomputed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	PersonID  *int64    `json:"person_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
