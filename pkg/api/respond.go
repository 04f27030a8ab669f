package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/seatplan/pkg/errors"
)

// maxBodyBytes bounds request bodies. Large venues stay well under it.
const maxBodyBytes = 4 << 20

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// StatusOf maps an error code to an HTTP status.
func StatusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeValidation, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodePermissionDenied:
		return http.StatusForbidden
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodePersistence:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError || status == http.StatusBadGateway {
		// Driver details stay in the server log.
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: errors.GetCode(err)})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
