package patients

import "context"

// Repository es el contrato de storage. List retorna la página y el total
// que matchea el mismo predicado (ignorando paginación); ambos se calculan
// sin lock entre sí. Delete debe cascadear a las notas del paciente.
type Repository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	List(ctx context.Context, f ListFilter) ([]Patient, int, error)
	Update(ctx context.Context, p Patient) error
	Delete(ctx context.Context, id string) error
}
