// Package api concentra la escritura de respuestas JSON y el mapeo
// AppError -> status HTTP, que ocurre una sola vez en este borde.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jtmst/dash-md/internal/apperrors"
	"github.com/jtmst/dash-md/internal/middleware"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error     string                 `json:"error"`
	Details   []apperrors.FieldError `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// WriteError traduce el error tipado a su status. Cualquier error no
// clasificado sale como 500 opaco con el id de correlación; el detalle
// queda solo en el log.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if ae, ok := apperrors.As(err); ok {
		switch ae.Type {
		case apperrors.TypeNotFound:
			WriteJSON(w, http.StatusNotFound, errorBody{Error: ae.Message})
			return
		case apperrors.TypeValidation:
			WriteJSON(w, http.StatusUnprocessableEntity, errorBody{
				Error:   ae.Message,
				Details: ae.Fields,
			})
			return
		}
	}

	rid := middleware.GetRequestID(r.Context())
	log.Error().Err(err).Str("request_id", rid).Msg("unhandled error")
	WriteJSON(w, http.StatusInternalServerError, errorBody{
		Error:     "internal server error",
		RequestID: rid,
	})
}

// WriteBadRequest es para fallas de parseo de la capa HTTP (query params,
// JSON malformado), que nunca llegan a la lógica de negocio.
func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
