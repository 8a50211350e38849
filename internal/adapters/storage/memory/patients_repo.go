package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

type patientsRepo struct {
	store *Store
}

func (r *patientsRepo) Create(ctx context.Context, p patients.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("patient id required")
	}
	if _, exists := r.store.patients[p.ID]; exists {
		return errors.New("patient already exists")
	}
	r.store.patients[p.ID] = p
	return nil
}

func (r *patientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.patients[id]
	if !ok {
		return patients.Patient{}, apperrors.NewNotFound("patient not found")
	}
	return p, nil
}

// List aplica el mismo predicado que el adapter de Postgres, en memoria:
// substring case-insensitive sobre nombre/apellido/email y match exacto de
// status. El search ya viene como texto literal (sin wildcards).
func (r *patientsRepo) List(ctx context.Context, f patients.ListFilter) ([]patients.Patient, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := make([]patients.Patient, 0)
	needle := strings.ToLower(f.Search)

	for _, p := range r.store.patients {
		if needle != "" {
			hay := strings.ToLower(p.FirstName + "\x00" + p.LastName + "\x00" + p.Email)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		matched = append(matched, p)
	}

	sortPatients(matched, f.SortBy, f.SortOrder == patients.SortOrderDesc)

	total := len(matched)

	if f.Offset >= len(matched) {
		return []patients.Patient{}, total, nil
	}
	matched = matched[f.Offset:]
	if len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}

	return matched, total, nil
}

func (r *patientsRepo) Update(ctx context.Context, p patients.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.patients[p.ID]; !exists {
		return apperrors.NewNotFound("patient not found")
	}
	r.store.patients[p.ID] = p
	return nil
}

// Delete cascadea: borra el paciente y todas sus notas.
func (r *patientsRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.patients[id]; !exists {
		return apperrors.NewNotFound("patient not found")
	}
	delete(r.store.patients, id)

	for nid, n := range r.store.notes {
		if n.PatientID == id {
			delete(r.store.notes, nid)
		}
	}
	return nil
}

func sortPatients(items []patients.Patient, sortBy string, desc bool) {
	var less func(a, b patients.Patient) bool

	switch sortBy {
	case "first_name":
		less = func(a, b patients.Patient) bool { return a.FirstName < b.FirstName }
	case "date_of_birth":
		less = func(a, b patients.Patient) bool { return a.DateOfBirth.Before(b.DateOfBirth) }
	case "status":
		less = func(a, b patients.Patient) bool { return a.Status < b.Status }
	case "last_visit_date":
		// nil al final, como NULLS LAST en asc
		less = func(a, b patients.Patient) bool {
			switch {
			case a.LastVisitDate == nil:
				return false
			case b.LastVisitDate == nil:
				return true
			default:
				return a.LastVisitDate.Before(*b.LastVisitDate)
			}
		}
	case "created_at":
		less = func(a, b patients.Patient) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default: // last_name
		less = func(a, b patients.Patient) bool { return a.LastName < b.LastName }
	}

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
