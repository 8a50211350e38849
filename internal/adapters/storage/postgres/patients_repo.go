package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

var patientColumns = []any{
	"id",
	"first_name", "last_name",
	"date_of_birth", "gender",
	"email", "phone", "address",
	"blood_type", "allergies", "conditions",
	"status", "last_visit_date",
	"created_at", "updated_at",
}

type PatientsRepo struct {
	db *sql.DB
	gq *goqu.Database
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{
		db: db,
		gq: goqu.New("postgres", db),
	}
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	query, args, err := r.gq.Insert("patients").
		Prepared(true).
		Rows(patientRecord(p)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternal("failed to build insert query", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternal("failed to create patient", err)
	}
	return nil
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Patient, error) {
	query, args, err := r.gq.From("patients").
		Prepared(true).
		Select(patientColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return patients.Patient{}, apperrors.NewInternal("failed to build query", err)
	}

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, apperrors.NewNotFound("patient not found")
		}
		return patients.Patient{}, apperrors.NewInternal("failed to get patient", err)
	}
	return p, nil
}

// List corre dos queries sobre el mismo predicado: la página y el total.
// No hay lock entre ambas; bajo escrituras concurrentes pueden divergir
// levemente (ventana aceptada).
func (r *PatientsRepo) List(ctx context.Context, f patients.ListFilter) ([]patients.Patient, int, error) {
	base := r.gq.From("patients").Prepared(true).Where(listPredicate(f)...)

	countSQL, countArgs, err := base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternal("failed to build count query", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternal("failed to count patients", err)
	}

	order := goqu.I(f.SortBy).Asc()
	if f.SortOrder == patients.SortOrderDesc {
		order = goqu.I(f.SortBy).Desc()
	}

	pageSQL, pageArgs, err := base.Select(patientColumns...).
		Order(order).
		Limit(uint(f.Limit)).
		Offset(uint(f.Offset)).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternal("failed to build list query", err)
	}

	rows, err := r.db.QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.NewInternal("failed to list patients", err)
	}
	defer rows.Close()

	out := make([]patients.Patient, 0, f.Limit)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperrors.NewInternal("failed to scan patient", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternal("failed to list patients", err)
	}

	return out, total, nil
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	query, args, err := r.gq.Update("patients").
		Prepared(true).
		Set(patientRecord(p)).
		Where(goqu.Ex{"id": p.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternal("failed to build update query", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternal("failed to update patient", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFound("patient not found")
	}
	return nil
}

// Delete borra el paciente; las notas cascadean vía FK (ON DELETE CASCADE).
func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	query, args, err := r.gq.Delete("patients").
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternal("failed to build delete query", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternal("failed to delete patient", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFound("patient not found")
	}
	return nil
}

func listPredicate(f patients.ListFilter) []goqu.Expression {
	exprs := make([]goqu.Expression, 0, 2)

	if f.Search != "" {
		pattern := "%" + patients.EscapeLike(f.Search) + "%"
		exprs = append(exprs, goqu.Or(
			goqu.I("first_name").ILike(pattern),
			goqu.I("last_name").ILike(pattern),
			goqu.I("email").ILike(pattern),
		))
	}
	if f.Status != "" {
		exprs = append(exprs, goqu.I("status").Eq(f.Status))
	}

	return exprs
}

func patientRecord(p patients.Patient) goqu.Record {
	return goqu.Record{
		"id":              p.ID,
		"first_name":      p.FirstName,
		"last_name":       p.LastName,
		"date_of_birth":   p.DateOfBirth,
		"gender":          p.Gender,
		"email":           p.Email,
		"phone":           p.Phone,
		"address":         p.Address,
		"blood_type":      sql.NullString{String: p.BloodType, Valid: p.BloodType != ""},
		"allergies":       pq.Array(p.Allergies),
		"conditions":      pq.Array(p.Conditions),
		"status":          string(p.Status),
		"last_visit_date": toNullTime(p.LastVisitDate),
		"created_at":      p.CreatedAt,
		"updated_at":      p.UpdatedAt,
	}
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPatient(row scannable) (patients.Patient, error) {
	var (
		p         patients.Patient
		bloodType sql.NullString
		lastVisit sql.NullTime
		status    string
	)

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.Email,
		&p.Phone,
		&p.Address,
		&bloodType,
		pq.Array(&p.Allergies),
		pq.Array(&p.Conditions),
		&status,
		&lastVisit,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return patients.Patient{}, err
	}

	p.BloodType = bloodType.String
	p.Status = patients.Status(status)
	if lastVisit.Valid {
		t := lastVisit.Time
		p.LastVisitDate = &t
	}

	return p, nil
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
