// Package api exposes the county-health lookup over HTTP: request
// validation, the zip-to-rankings join, and the JSON transport around them.
package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/countyhealth/countyd/store"
)

// Server routes requests to the validator and query engine. It implements
// http.Handler.
type Server struct {
	db        *sql.DB
	router    *chi.Mux
	validator *Validator
	engine    *QueryEngine
}

// NewServer wires the HTTP surface over an opened, populated store handle.
func NewServer(db *sql.DB) *Server {
	s := &Server{
		db:        db,
		router:    chi.NewRouter(),
		validator: &Validator{DB: db},
		engine:    &QueryEngine{DB: db},
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Post("/county_data", s.handleCountyData)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/measures", s.handleMeasures)
		r.Get("/stats", s.handleStats)
		r.Get("/search", s.handleSearch)
		r.Get("/health_rankings", s.handleHealthRankings)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleCountyData is the validated join-query path. Fields come from the
// query string and, when a JSON body is present, its top-level keys; the
// body wins on overlap. Every field, recognized or not, goes through the
// validator so the teapot rule sees the full picture.
func (s *Server) handleCountyData(w http.ResponseWriter, r *http.Request) {
	fields, err := requestFields(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, envelope{Error: "invalid JSON body"})
		return
	}

	zip, measure, err := s.validator.Validate(r.Context(), fields)
	if err != nil {
		respondError(w, r, err)
		return
	}

	records, err := s.engine.CountyData(r.Context(), zip, measure)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, len(records), records)
}

func (s *Server) handleMeasures(w http.ResponseWriter, r *http.Request) {
	names, err := store.MeasureNames(r.Context(), s.db)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, len(names), names)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.LoadStats(r.Context(), s.db)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: stats})
}

// handleSearch looks up counties by name or state abbreviation. A missing
// or blank q parameter is a 400, not an unfiltered listing.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondJSON(w, http.StatusBadRequest, envelope{Error: "missing query"})
		return
	}

	records, err := s.engine.Search(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}

	count := len(records)
	respondJSON(w, http.StatusOK, envelope{
		Success: true,
		Query:   query,
		Count:   &count,
		Data:    records,
	})
}

// handleHealthRankings serves the paginated rankings listing with optional
// exact-match county and state filters. Unparseable page numbers fall back
// to the defaults.
func (s *Server) handleHealthRankings(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page := RankingsPage{
		County:  params.Get("county"),
		State:   params.Get("state"),
		Page:    intParam(params.Get("page"), 1),
		PerPage: intParam(params.Get("per_page"), defaultPerPage),
	}

	records, total, err := s.engine.HealthRankings(r.Context(), page)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page.normalize()
	respondJSON(w, http.StatusOK, pagedEnvelope{
		Success:    true,
		Count:      len(records),
		Total:      total,
		Page:       page.Page,
		PerPage:    page.PerPage,
		TotalPages: (total + page.PerPage - 1) / page.PerPage,
		Data:       records,
	})
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// requestFields flattens the request into field name → string value.
func requestFields(r *http.Request) (map[string]string, error) {
	fields := make(map[string]string)

	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		var decoded map[string]interface{}
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, err
		}
		for name, value := range decoded {
			switch v := value.(type) {
			case string:
				fields[name] = v
			case nil:
				fields[name] = ""
			default:
				fields[name] = fmt.Sprint(v)
			}
		}
	}

	return fields, nil
}
