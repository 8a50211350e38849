package notes

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

const maxContentLength = 10000

// PatientFinder es lo mínimo que el módulo necesita de pacientes:
// verificar existencia antes de cualquier lectura o mutación de notas.
type PatientFinder interface {
	GetByID(ctx context.Context, id string) (patients.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientFinder
	now      func() time.Time
}

func NewService(repo Repository, finder PatientFinder) *Service {
	return &Service{
		repo:     repo,
		patients: finder,
		now:      time.Now,
	}
}

type CreateInput struct {
	Content   string
	Timestamp time.Time
}

// Create valida el cuerpo antes de buscar al paciente: un payload inválido
// es error de validación aunque el paciente no exista.
func (s *Service) Create(ctx context.Context, patientID string, in CreateInput) (Note, error) {
	var fields []apperrors.FieldError
	if strings.TrimSpace(in.Content) == "" {
		fields = append(fields, apperrors.FieldError{Field: "content", Message: "is required"})
	} else if utf8.RuneCountInString(in.Content) > maxContentLength {
		fields = append(fields, apperrors.FieldError{Field: "content", Message: "must be at most 10000 characters"})
	}
	if in.Timestamp.IsZero() {
		fields = append(fields, apperrors.FieldError{Field: "timestamp", Message: "is required"})
	}
	if len(fields) > 0 {
		return Note{}, apperrors.NewValidation("validation failed", fields...)
	}

	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return Note{}, err
	}

	n := Note{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Content:   in.Content,
		Timestamp: in.Timestamp,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

// ListByPatient chequea existencia del paciente aun con cero notas.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Note, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// Delete borra solo si la nota existe Y pertenece a ese paciente. Una nota
// de otro paciente se reporta como not found, sin revelar a quién pertenece.
func (s *Service) Delete(ctx context.Context, noteID, patientID string) error {
	noteID = strings.TrimSpace(noteID)
	if noteID == "" {
		return apperrors.NewNotFound("note not found")
	}
	return s.repo.Delete(ctx, noteID, patientID)
}
