package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/engine"
	"github.com/spektr-org/hrpulse/render"
	"github.com/spektr-org/hrpulse/report"
)

// ============================================================================
// HEALTH
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once the dataset loads and yields a report.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.generator.Generate(s.dataPath); err != nil {
		status, _ := Classify(err)
		writeJSON(w, status, map[string]string{"status": "not_ready", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// ============================================================================
// REPORT API
// ============================================================================

func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	rep, err := s.generator.Generate(s.dataPath)
	if err != nil {
		s.errorHandler.handle(w, r, err)
		return nil, false
	}
	return rep, true
}

// handleReport renders the whole report; ?format= picks json (default),
// pretty, yaml, text or csv.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	renderer, err := render.New(format)
	if err != nil {
		s.errorHandler.write(w, r, http.StatusBadRequest, ErrorCodeInvalidRequest, err.Error())
		return
	}

	rep, ok := s.generate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rep); err != nil {
		s.errorHandler.handle(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.generate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep.KPIs)
}

// handleJobRoles returns the job-role table; ?sort=label_asc or value_desc
// reorders it.
func (s *Server) handleJobRoles(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.generate(w, r)
	if !ok {
		return
	}
	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		engine.SortRows(rep.JobRoles, sortBy)
	}
	writeJSON(w, http.StatusOK, rep.JobRoles)
}

func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, engine.DashboardCharts())
}

// handleChart returns one chart's spec and data as JSON, or its data as CSV
// with ?format=csv.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.chart(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		var buf bytes.Buffer
		if err := render.ChartCSV(&buf, cfg); err != nil {
			s.errorHandler.handle(w, r, err)
			return
		}
		w.Header().Set("Content-Type", render.CSV{}.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	cfg, ok := s.chart(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.ChartPNG(&buf, cfg, s.chartSize); err != nil {
		s.errorHandler.handle(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) (*engine.ChartConfig, bool) {
	id := mux.Vars(r)["id"]
	if _, known := engine.FindChart(id); !known {
		s.errorHandler.write(w, r, http.StatusNotFound, ErrorCodeNotFound, "unknown chart "+id)
		return nil, false
	}
	rep, ok := s.generate(w, r)
	if !ok {
		return nil, false
	}
	cfg, _ := rep.Chart(id)
	return cfg, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
