// Package activity registro de actividad acotado (FIFO, más reciente primero).
package activity

import (
	"time"

	"github.com/jhoicas/inventario-console/internal/domain/entity"
)

// DefaultCapacity número máximo de entradas conservadas.
const DefaultCapacity = 200

// Recorder log append-only con capacidad fija; las entradas más antiguas se descartan.
type Recorder struct {
	entries  []entity.ActivityLogEntry // más reciente primero
	capacity int
	now      func() time.Time
	newID    func() string
}

// NewRecorder construye el registro a partir de entradas persistidas (más reciente primero).
func NewRecorder(entries []entity.ActivityLogEntry, capacity int, now func() time.Time, newID func() string) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(entries) > capacity {
		entries = entries[:capacity]
	}
	return &Recorder{
		entries:  append([]entity.ActivityLogEntry(nil), entries...),
		capacity: capacity,
		now:      now,
		newID:    newID,
	}
}

// Append antepone una entrada atribuida a actor. No hace nada si actor es nil.
func (r *Recorder) Append(description string, actor *entity.User) (entity.ActivityLogEntry, bool) {
	if actor == nil {
		return entity.ActivityLogEntry{}, false
	}
	e := entity.ActivityLogEntry{
		ID:          r.newID(),
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Description: description,
		Timestamp:   r.now(),
	}
	next := make([]entity.ActivityLogEntry, 0, min(len(r.entries)+1, r.capacity))
	next = append(next, e)
	next = append(next, r.entries...)
	if len(next) > r.capacity {
		next = next[:r.capacity]
	}
	r.entries = next
	return e, true
}

// Len número de entradas.
func (r *Recorder) Len() int { return len(r.entries) }

// All entradas, más reciente primero.
func (r *Recorder) All() []entity.ActivityLogEntry {
	return append([]entity.ActivityLogEntry{}, r.entries...)
}

// FilterByUser entradas de un actor, más reciente primero.
func (r *Recorder) FilterByUser(userID string) []entity.ActivityLogEntry {
	out := make([]entity.ActivityLogEntry, 0)
	for _, e := range r.entries {
		if e.ActorID == userID {
			out = append(out, e)
		}
	}
	return out
}
