package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"giggen/auth"
	"giggen/band"
	"giggen/booking"
	"giggen/concept"
	"giggen/event"
	"giggen/filebank"
	"giggen/wizard"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Step  string `json:"step,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}

// writeError maps domain sentinels onto HTTP statuses. Unrecognized errors
// become opaque 500s; the detail goes to the log, not the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: stepErr.Error(), Step: stepErr.Name})
		return
	}

	switch {
	case errors.Is(err, booking.ErrNotFound),
		errors.Is(err, concept.ErrNotFound),
		errors.Is(err, event.ErrNotFound),
		errors.Is(err, band.ErrNotFound),
		errors.Is(err, filebank.ErrNotFound),
		errors.Is(err, auth.ErrUserNotFound),
		// Non-participants are not told the booking exists.
		errors.Is(err, booking.ErrNotParticipant):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})

	case errors.Is(err, concept.ErrNotOwner),
		errors.Is(err, event.ErrNotOrganizer):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})

	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})

	case errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, band.ErrDuplicateName),
		errors.Is(err, booking.ErrReviewIncomplete),
		errors.Is(err, booking.ErrNotApprovable),
		errors.Is(err, booking.ErrCancelInvalidState),
		errors.Is(err, booking.ErrEditInvalidState):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})

	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, filebank.ErrInvalidKind):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		s.log.Errorf("http", "internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("httpapi: decode body: %w", err)
	}
	return nil
}
