package entity

import "time"

// ActivityLogEntry entrada inmutable del registro de actividad.
type ActivityLogEntry struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actorId"`
	ActorName   string    `json:"actorName"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
