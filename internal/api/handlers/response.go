package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rajat93105-cell/pbl-project/internal/auth"
	"github.com/rajat93105-cell/pbl-project/internal/models"
	"github.com/rajat93105-cell/pbl-project/internal/services"
	"github.com/rs/zerolog/log"
)

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func errorJSON(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}

// writeError maps a service error to its status code. Unknown errors are
// logged and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var code int
	switch {
	case errors.Is(err, services.ErrValidation):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, services.ErrDuplicate):
		code = http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, services.ErrProvider):
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	default:
		user, _ := auth.UserFromContext(r.Context())
		log.Error().Err(err).Str("user_id", user.ID).Str("path", r.URL.Path).Msg(msg)
		errorJSON(w, http.StatusInternalServerError, msg)
		return
	}
	errorJSON(w, code, err.Error())
}

// decodeJSON reads the request body into v, answering 400 when it is not JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// currentUser returns the authenticated caller. Routes using it sit behind
// the auth middleware, so a miss is a wiring bug.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Could not retrieve user from context")
		errorJSON(w, http.StatusUnauthorized, "Not authenticated")
	}
	return user, ok
}

// queryInt parses an optional integer query parameter. Absent means zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &services.DetailError{Kind: services.ErrValidation, Detail: name + " must be an integer"}
	}
	return v, nil
}

// queryFloat parses an optional number query parameter. Absent means nil.
func queryFloat(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &services.DetailError{Kind: services.ErrValidation, Detail: name + " must be a finite number"}
	}
	return &v, nil
}

// boolWords are the spellings accepted for boolean query parameters.
var boolWords = map[string]bool{
	"1": true, "true": true, "t": true, "yes": true, "y": true, "on": true,
	"0": false, "false": false, "f": false, "no": false, "n": false, "off": false,
}

// queryBool parses an optional boolean query parameter. Absent means false.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, ok := boolWords[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return false, &services.DetailError{Kind: services.ErrValidation, Detail: name + " must be a boolean"}
	}
	return v, nil
}
