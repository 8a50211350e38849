package notes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jtmst/dash-md/internal/api"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients/{patientID}/notes", func(nr chi.Router) {
		nr.Post("/", createNoteHandler(svc))
		nr.Get("/", listNotesHandler(svc))
		nr.Delete("/{noteID}", deleteNoteHandler(svc))
	})
}

type createNoteRequest struct {
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"` // RFC3339
}

type noteResponse struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

func createNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteBadRequest(w, "invalid json")
			return
		}

		in := CreateInput{Content: req.Content}
		if req.Timestamp != nil {
			in.Timestamp = *req.Timestamp
		}

		n, err := svc.Create(r.Context(), chi.URLParam(r, "patientID"), in)
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		api.WriteJSON(w, http.StatusCreated, toNoteResponse(n))
	}
}

func listNotesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByPatient(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			api.WriteError(w, r, err)
			return
		}

		out := make([]noteResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNoteResponse(n))
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}

func deleteNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), chi.URLParam(r, "noteID"), chi.URLParam(r, "patientID"))
		if err != nil {
			api.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toNoteResponse(n Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		PatientID: n.PatientID,
		Content:   n.Content,
		Timestamp: n.Timestamp,
		CreatedAt: n.CreatedAt,
	}
}
