// Package seed puebla el store con pacientes de ejemplo para dev/demo.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jtmst/dash-md/internal/domain/patients"
)

// Patients inserta el set de ejemplo solo si el store está vacío.
func Patients(ctx context.Context, svc *patients.Service) error {
	_, total, err := svc.List(ctx, patients.ListFilter{Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	for _, in := range samplePatients() {
		if _, err := svc.Create(ctx, in); err != nil {
			return err
		}
	}

	log.Info().Int("count", len(samplePatients())).Msg("seeded sample patients")
	return nil
}

func samplePatients() []patients.Input {
	lastVisit := func(s string) *time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return &t
	}
	dob := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}

	return []patients.Input{
		{
			FirstName:     "Maria",
			LastName:      "Gonzalez",
			DateOfBirth:   dob("1985-03-22"),
			Gender:        "Female",
			Email:         "maria.gonzalez@example.com",
			Phone:         "555-0101",
			Address:       "742 Evergreen Terrace, Springfield",
			BloodType:     "O+",
			Allergies:     []string{"Penicillin"},
			Conditions:    []string{"Hypertension"},
			Status:        "active",
			LastVisitDate: lastVisit("2025-06-14T09:30:00Z"),
		},
		{
			FirstName:   "James",
			LastName:    "Okafor",
			DateOfBirth: dob("1972-11-05"),
			Gender:      "Male",
			Email:       "james.okafor@example.com",
			Phone:       "555-0102",
			Address:     "18 Harbor Lane, Portsmouth",
			BloodType:   "A-",
			Conditions:  []string{"Type 2 diabetes", "Chronic kidney disease"},
			Status:      "critical",
		},
		{
			FirstName:     "Lena",
			LastName:      "Petrova",
			DateOfBirth:   dob("1996-07-30"),
			Gender:        "Female",
			Email:         "lena.petrova@example.com",
			Phone:         "555-0103",
			Address:       "5 Birchwood Close, Leeds",
			Allergies:     []string{"Latex", "Shellfish"},
			Status:        "inactive",
			LastVisitDate: lastVisit("2024-12-02T15:00:00Z"),
		},
	}
}
