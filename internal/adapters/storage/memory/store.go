// Package memory implementa los repos sobre mapas con mutex. Se usa en dev
// sin DATABASE_URL y en la suite end-to-end del router.
package memory

import (
	"sync"

	"github.com/jtmst/dash-md/internal/domain/notes"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

// Store comparte el estado entre ambos repos para que el borrado de un
// paciente pueda cascadear a sus notas, como lo hace la FK en Postgres.
type Store struct {
	mu       sync.RWMutex
	patients map[string]patients.Patient
	notes    map[string]notes.Note
}

func NewStore() *Store {
	return &Store{
		patients: make(map[string]patients.Patient),
		notes:    make(map[string]notes.Note),
	}
}

func (s *Store) Patients() patients.Repository {
	return &patientsRepo{store: s}
}

func (s *Store) Notes() notes.Repository {
	return &notesRepo{store: s}
}
