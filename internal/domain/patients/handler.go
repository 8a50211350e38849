package patients

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jtmst/dash-md/internal/api"
	"github.com/jtmst/dash-md/internal/apperrors"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Post("/", createPatientHandler(svc))

		pr.Get("/{patientID}", getPatientHandler(svc))
		pr.Put("/{patientID}", updatePatientHandler(svc))
		pr.Delete("/{patientID}", deletePatientHandler(svc))
	})
}

// patientRequest es el cuerpo completo de create/update (reemplazo total).
type patientRequest struct {
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	DateOfBirth   string     `json:"date_of_birth"` // YYYY-MM-DD
	Gender        string     `json:"gender"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	BloodType     *string    `json:"blood_type"`
	Allergies     []string   `json:"allergies"`
	Conditions    []string   `json:"conditions"`
	Status        string     `json:"status"`
	LastVisitDate *time.Time `json:"last_visit_date"`
}

type patientResponse struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	DateOfBirth   string     `json:"date_of_birth"`
	Gender        string     `json:"gender"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	BloodType     *string    `json:"blood_type"`
	Allergies     []string   `json:"allergies"`
	Conditions    []string   `json:"conditions"`
	Status        Status     `json:"status"`
	LastVisitDate *time.Time `json:"last_visit_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type paginatedResponse struct {
	Items  []patientResponse `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := parseListFilter(r)
		if err != nil {
			api.WriteBadRequest(w, err.Error())
			return
		}

		// Parámetros de query inválidos son 400, no 422.
		f.Normalize()
		if err := f.Validate(); err != nil {
			if ae, ok := apperrors.As(err); ok {
				api.WriteBadRequest(w, ae.Message)
				return
			}
			api.WriteError(w, r, err)
			return
		}

		items, total, err := svc.List(r.Context(), f)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}

		api.WriteJSON(w, http.StatusOK, paginatedResponse{
			Items:  out,
			Total:  total,
			Limit:  f.Limit,
			Offset: f.Offset,
		})
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteBadRequest(w, "invalid json")
			return
		}

		in, err := toInput(req)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), in)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteBadRequest(w, "invalid json")
			return
		}

		in, err := toInput(req)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "patientID"), in)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func deletePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "patientID")); err != nil {
			api.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListFilter{}, apperrors.NewValidation("limit must be an integer")
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListFilter{}, apperrors.NewValidation("offset must be an integer")
		}
		f.Offset = n
	}
	return f, nil
}

// toInput traduce el DTO al input de dominio. Una fecha de nacimiento con
// formato inválido se reporta como error de validación de campo.
func toInput(req patientRequest) (Input, error) {
	in := Input{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        req.Gender,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Allergies:     req.Allergies,
		Conditions:    req.Conditions,
		Status:        req.Status,
		LastVisitDate: req.LastVisitDate,
	}

	if req.BloodType != nil {
		in.BloodType = *req.BloodType
	}

	if req.DateOfBirth != "" {
		t, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return Input{}, apperrors.NewValidation("validation failed", apperrors.FieldError{
				Field:   "date_of_birth",
				Message: "must be a date in YYYY-MM-DD format",
			})
		}
		in.DateOfBirth = t
	}

	return in, nil
}

func toPatientResponse(p Patient) patientResponse {
	resp := patientResponse{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		DateOfBirth:   p.DateOfBirth.Format(dateLayout),
		Gender:        p.Gender,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		Allergies:     p.Allergies,
		Conditions:    p.Conditions,
		Status:        p.Status,
		LastVisitDate: p.LastVisitDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.BloodType != "" {
		bt := p.BloodType
		resp.BloodType = &bt
	}
	if resp.Allergies == nil {
		resp.Allergies = []string{}
	}
	if resp.Conditions == nil {
		resp.Conditions = []string{}
	}
	return resp
}
