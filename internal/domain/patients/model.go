package patients

import "time"

// Status define los estados soportados de un paciente.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusCritical Status = "critical"
)

// ValidStatus reporta si s es uno de los estados enumerados.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusCritical:
		return true
	}
	return false
}

// BloodTypes son los 8 grupos sanguíneos admitidos.
var BloodTypes = map[string]struct{}{
	"A+": {}, "A-": {},
	"B+": {}, "B-": {},
	"AB+": {}, "AB-": {},
	"O+": {}, "O-": {},
}

// Patient representa la ficha de un paciente.
type Patient struct {
	ID string

	FirstName   string
	LastName    string
	DateOfBirth time.Time // solo fecha (medianoche UTC)
	Gender      string
	Email       string
	Phone       string
	Address     string

	BloodType  string // "" = no registrado
	Allergies  []string
	Conditions []string

	Status        Status
	LastVisitDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
