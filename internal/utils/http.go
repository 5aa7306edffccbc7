package utils

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
)

// JSON writes a JSON response with status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// JSONError writes {"error": "..."} with a given status.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// DecodeJSON parses the JSON body into v and handles invalid JSON.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil {
		JSONError(w, http.StatusBadRequest, "empty request body")
		return http.ErrBodyNotAllowed
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		JSONError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return err
	}

	return nil
}

// Error translates a typed error from the auth or storage layer into
// its HTTP status. Anything unrecognized is a persistence failure and
// stays an opaque 500 with no internal detail leaked to the client.
func Error(w http.ResponseWriter, err error) {
	var ve *auth.ValidationError

	switch {
	case errors.As(err, &ve):
		JSONError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, auth.ErrDuplicateEmail):
		JSONError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, auth.ErrInvalidCredentials):
		JSONError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		JSONError(w, http.StatusUnauthorized, "not authorized")
	case errors.Is(err, auth.ErrForbidden):
		JSONError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, sql.ErrNoRows):
		JSONError(w, http.StatusNotFound, "not found")
	default:
		JSONError(w, http.StatusInternalServerError, "internal error")
	}
}
