package postgres

import "github.com/google/uuid"

// SetIDGenerator reemplaza el generador de ids del repositorio.
func (r *RecordRepo) SetIDGenerator(fn func() uuid.UUID) {
	r.newID = fn
}
