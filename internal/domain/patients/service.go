package patients

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jtmst/dash-md/internal/apperrors"
)

const (
	maxListItems  = 50
	maxItemLength = 200
	maxNameLength = 100
	maxGenderLen  = 20
	maxPhoneLen   = 20
	maxAddressLen = 500
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Input es el payload completo de create/update (reemplazo total, no patch).
type Input struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Gender      string
	Email       string
	Phone       string
	Address     string

	BloodType  string
	Allergies  []string
	Conditions []string

	Status        string
	LastVisitDate *time.Time
}

func (s *Service) Create(ctx context.Context, in Input) (Patient, error) {
	in = trimInput(in)
	if err := s.validate(in); err != nil {
		return Patient{}, err
	}

	now := s.now()
	p := Patient{
		ID:            uuid.NewString(),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		DateOfBirth:   in.DateOfBirth,
		Gender:        in.Gender,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		BloodType:     in.BloodType,
		Allergies:     in.Allergies,
		Conditions:    in.Conditions,
		Status:        statusOrDefault(in.Status),
		LastVisitDate: in.LastVisitDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Patient{}, apperrors.NewNotFound("patient not found")
	}
	return s.repo.GetByID(ctx, id)
}

// List valida el filtro antes de consultar; un sort fuera de la whitelist
// nunca llega al storage.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Patient, int, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, f)
}

// Update reemplaza todos los campos editables del paciente, campo por campo.
// created_at se preserva; updated_at se refresca.
func (s *Service) Update(ctx context.Context, id string, in Input) (Patient, error) {
	in = trimInput(in)
	if err := s.validate(in); err != nil {
		return Patient{}, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Patient{}, err
	}

	current.FirstName = in.FirstName
	current.LastName = in.LastName
	current.DateOfBirth = in.DateOfBirth
	current.Gender = in.Gender
	current.Email = in.Email
	current.Phone = in.Phone
	current.Address = in.Address
	current.BloodType = in.BloodType
	current.Allergies = in.Allergies
	current.Conditions = in.Conditions
	current.Status = statusOrDefault(in.Status)
	current.LastVisitDate = in.LastVisitDate
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Patient{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.NewNotFound("patient not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(in Input) error {
	var fields []apperrors.FieldError

	add := func(field, msg string) {
		fields = append(fields, apperrors.FieldError{Field: field, Message: msg})
	}

	// Los límites son en caracteres, no en bytes.
	checkRequired := func(field, v string, max int) {
		if v == "" {
			add(field, "is required")
		} else if utf8.RuneCountInString(v) > max {
			add(field, fmt.Sprintf("must be at most %d characters", max))
		}
	}

	checkRequired("first_name", in.FirstName, maxNameLength)
	checkRequired("last_name", in.LastName, maxNameLength)
	checkRequired("gender", in.Gender, maxGenderLen)
	checkRequired("phone", in.Phone, maxPhoneLen)
	checkRequired("address", in.Address, maxAddressLen)

	if in.Email == "" {
		add("email", "is required")
	} else if !validEmail(in.Email) {
		add("email", "must be a valid email address")
	}

	if in.DateOfBirth.IsZero() {
		add("date_of_birth", "is required")
	} else if !in.DateOfBirth.Before(today(s.now())) {
		add("date_of_birth", "must be before the current date")
	}

	if in.BloodType != "" {
		if _, ok := BloodTypes[in.BloodType]; !ok {
			add("blood_type", "must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
		}
	}

	checkList := func(field string, items []string) {
		if len(items) > maxListItems {
			add(field, fmt.Sprintf("must have at most %d items", maxListItems))
			return
		}
		for _, it := range items {
			if strings.TrimSpace(it) == "" {
				add(field, "items must not be empty")
				return
			}
			if utf8.RuneCountInString(it) > maxItemLength {
				add(field, fmt.Sprintf("items must be at most %d characters", maxItemLength))
				return
			}
		}
	}
	checkList("allergies", in.Allergies)
	checkList("conditions", in.Conditions)

	if in.Status != "" && !ValidStatus(in.Status) {
		add("status", "must be one of active, inactive, critical")
	}

	if len(fields) > 0 {
		return apperrors.NewValidation("validation failed", fields...)
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// today trunca a medianoche UTC; date_of_birth se compara como fecha.
func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func statusOrDefault(s string) Status {
	if s == "" {
		return StatusActive
	}
	return Status(s)
}

func trimInput(in Input) Input {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.BloodType = strings.TrimSpace(in.BloodType)
	in.Status = strings.TrimSpace(in.Status)
	if in.Allergies == nil {
		in.Allergies = []string{}
	}
	if in.Conditions == nil {
		in.Conditions = []string{}
	}
	return in
}
