package postgres

import (
	"context"
	"database/sql"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/domain/notes"
)

type NotesRepo struct {
	db *sql.DB
}

func NewNotesRepo(db *sql.DB) *NotesRepo {
	return &NotesRepo{db: db}
}

func (r *NotesRepo) Create(ctx context.Context, n notes.Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (
			id, patient_id,
			content, "timestamp",
			created_at
		) VALUES ($1,$2,$3,$4,$5)
	`,
		n.ID,
		n.PatientID,
		n.Content,
		n.Timestamp,
		n.CreatedAt,
	)
	if err != nil {
		return apperrors.NewInternal("failed to create note", err)
	}
	return nil
}

func (r *NotesRepo) ListByPatient(ctx context.Context, patientID string) ([]notes.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, patient_id,
			content, "timestamp",
			created_at
		FROM notes
		WHERE patient_id = $1
		ORDER BY "timestamp" DESC
	`, patientID)
	if err != nil {
		return nil, apperrors.NewInternal("failed to list notes", err)
	}
	defer rows.Close()

	out := make([]notes.Note, 0)
	for rows.Next() {
		var n notes.Note
		if err := rows.Scan(
			&n.ID,
			&n.PatientID,
			&n.Content,
			&n.Timestamp,
			&n.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternal("failed to scan note", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternal("failed to list notes", err)
	}

	return out, nil
}

// Delete exige que id y patient_id matcheen juntos: una nota de otro
// paciente se reporta como not found.
func (r *NotesRepo) Delete(ctx context.Context, noteID, patientID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notes
		WHERE id = $1 AND patient_id = $2
	`, noteID, patientID)
	if err != nil {
		return apperrors.NewInternal("failed to delete note", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFound("note not found")
	}
	return nil
}
