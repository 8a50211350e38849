package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/domain/notes"
)

type notesRepo struct {
	store *Store
}

func (r *notesRepo) Create(ctx context.Context, n notes.Note) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if strings.TrimSpace(n.ID) == "" {
		return errors.New("note id required")
	}
	if _, exists := r.store.notes[n.ID]; exists {
		return errors.New("note already exists")
	}
	r.store.notes[n.ID] = n
	return nil
}

func (r *notesRepo) ListByPatient(ctx context.Context, patientID string) ([]notes.Note, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]notes.Note, 0)
	for _, n := range r.store.notes {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}

	// timestamp clínico descendente (más reciente primero)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	return out, nil
}

func (r *notesRepo) Delete(ctx context.Context, noteID, patientID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notes[noteID]
	if !ok || n.PatientID != patientID {
		return apperrors.NewNotFound("note not found")
	}
	delete(r.store.notes, noteID)
	return nil
}
