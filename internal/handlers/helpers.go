package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"campaign-app/internal/database"
	"campaign-app/internal/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v and runs struct validation.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation failed: %v", err)
	}
	return nil
}

// handleServiceError maps service errors to HTTP statuses: missing rows to
// 404, authorization failures to 403, everything else to 400.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
