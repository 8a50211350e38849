package summary

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jtmst/dash-md/internal/api"
	"github.com/jtmst/dash-md/internal/domain/notes"
	"github.com/jtmst/dash-md/internal/domain/patients"
)

func RegisterRoutes(r chi.Router, patientsSvc *patients.Service, notesSvc *notes.Service, svc *Service) {
	r.Get("/patients/{patientID}/summary", getSummaryHandler(patientsSvc, notesSvc, svc))
}

func getSummaryHandler(patientsSvc *patients.Service, notesSvc *notes.Service, svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID := chi.URLParam(r, "patientID")

		p, err := patientsSvc.GetByID(r.Context(), patientID)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		ns, err := notesSvc.ListByPatient(r.Context(), patientID)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusOK, svc.Generate(r.Context(), p, ns))
	}
}
