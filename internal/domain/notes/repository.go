package notes

import "context"

// Repository es el contrato de storage para notas.
// ListByPatient retorna las notas ordenadas por timestamp clínico
// descendente. Delete solo borra si la nota pertenece a ese paciente.
type Repository interface {
	Create(ctx context.Context, n Note) error
	ListByPatient(ctx context.Context, patientID string) ([]Note, error)
	Delete(ctx context.Context, noteID, patientID string) error
}
