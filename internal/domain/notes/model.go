package notes

import "time"

// Note es una nota clínica append-only de un paciente. No existe operación
// de update: una vez creada solo puede listarse o borrarse.
type Note struct {
	ID        string
	PatientID string

	Content   string
	Timestamp time.Time // momento clínico indicado por quien registra

	CreatedAt time.Time
}
