package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"review-service/internal/store"

	"github.com/gorilla/mux"
)

// RespondWithError writes an error response in JSON format
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// StoreErrorStatus maps the client-caused storage error kinds to HTTP status
// codes. Anything else yields 0.
func StoreErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, store.ErrTransientAssociation):
		return http.StatusBadRequest
	}
	return 0
}

// PathID parses the {id} route variable.
func PathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
