package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/countyhealth/countyd/logging"
)

// envelope is the JSON response shape shared by most endpoints. Query is
// only set by the search endpoint, which echoes the term back.
type envelope struct {
	Success bool        `json:"success"`
	Query   string      `json:"query,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// pagedEnvelope is the listing shape: the page contents plus where the page
// sits in the full result set.
type pagedEnvelope struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, count int, data interface{}) {
	respondJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: data})
}

// respondError maps the error taxonomy to its status code: Rejection keeps
// the status it carries, ErrZipNotFound is 404, anything else is a 500
// whose detail stays in the server log.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var rej *Rejection
	switch {
	case errors.As(err, &rej):
		respondJSON(w, rej.Status, envelope{Error: rej.Reason})
	case errors.Is(err, ErrZipNotFound):
		respondJSON(w, http.StatusNotFound, envelope{Error: "zip not found"})
	default:
		logging.FromContext(r.Context()).Error("request failed",
			"path", r.URL.Path,
			"method", r.Method,
			"error", err.Error(),
		)
		respondJSON(w, http.StatusInternalServerError, envelope{Error: "internal server error"})
	}
}
