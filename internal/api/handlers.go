package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "llc-directory/internal/common/errors"
	"llc-directory/internal/models"
	"llc-directory/internal/query"
)

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.directory.Services())
}

func (s *Server) handleTop10(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.directory.TopProviders())
}

func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.directory.States(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleDataSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.directory.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleProviderStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.directory.ProviderStates(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleProviderPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.directory.ProviderPage(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleProviderStatePage(w http.ResponseWriter, r *http.Request) {
	page, err := s.directory.ProviderStatePage(r.Context(), r.PathValue("name"), r.PathValue("state"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.directory.Search(r.Context(), query.Filter{
		ProviderName: q.Get("name"),
		State:        q.Get("state"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTopValues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	field := q.Get("field")
	if field == "" {
		field = models.FieldCity
	}
	n := 0
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidQueryParameterError(fmt.Sprintf("n: %q is not an integer", raw)))
			return
		}
		n = parsed
		if n <= 0 {
			s.writeError(w, r, apperrors.NewInvalidQueryParameterError("n: must be positive"))
			return
		}
	}

	top, err := s.directory.TopValues(r.Context(), field, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"field":  field,
		"values": top,
	})
}

func (s *Server) handleStateCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.directory.StateCounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.opts.AppName,
		"version": s.opts.AppVersion,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"time":    time.Now().Format(time.RFC3339),
	})
}

// handleReady runs every readiness check. The dataset is never a check:
// a missing file still serves empty results.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.opts.Checks))
	for name, check := range s.opts.Checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	s.writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
		"time":   time.Now().Format(time.RFC3339),
	})
}
