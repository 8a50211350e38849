package patients

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jtmst/dash-md/internal/apperrors"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	DefaultSortBy    = "last_name"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
	defaultSortOrder = SortOrderAsc
)

// SortableColumns es la whitelist de columnas de ordenamiento. Cualquier
// valor fuera del set falla validación antes de tocar el storage.
var SortableColumns = map[string]struct{}{
	"first_name":      {},
	"last_name":       {},
	"date_of_birth":   {},
	"status":          {},
	"last_visit_date": {},
	"created_at":      {},
}

// ListFilter describe el listado paginado de pacientes.
// Empates bajo la columna elegida quedan en orden del storage (indefinido);
// quien necesite determinismo debe ordenar por una columna única.
type ListFilter struct {
	Limit  int
	Offset int

	Search string // substring case-insensitive sobre first_name, last_name o email
	Status string // match exacto contra los estados enumerados

	SortBy    string
	SortOrder string
}

// Normalize aplica defaults y clampea los valores de paginación.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if strings.TrimSpace(f.SortBy) == "" {
		f.SortBy = DefaultSortBy
	}
	if strings.TrimSpace(f.SortOrder) == "" {
		f.SortOrder = defaultSortOrder
	}
	f.Search = strings.TrimSpace(f.Search)
	f.Status = strings.TrimSpace(f.Status)
}

// Validate chequea sort y status contra sus sets permitidos.
func (f ListFilter) Validate() error {
	if _, ok := SortableColumns[f.SortBy]; !ok {
		return apperrors.NewValidation(
			fmt.Sprintf("invalid sort_by column, allowed: %s", strings.Join(sortedColumns(), ", ")),
		)
	}
	if f.SortOrder != SortOrderAsc && f.SortOrder != SortOrderDesc {
		return apperrors.NewValidation("invalid sort_order, allowed: asc, desc")
	}
	if f.Status != "" && !ValidStatus(f.Status) {
		return apperrors.NewValidation("invalid status, allowed: active, inactive, critical")
	}
	return nil
}

func sortedColumns() []string {
	cols := make([]string, 0, len(SortableColumns))
	for c := range SortableColumns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapa backslash, porcentaje y underscore para que el texto
// del usuario no inyecte wildcards en el patrón LIKE/ILIKE.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
