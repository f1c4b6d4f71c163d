package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/transit-tools/line-uptime/uptime"
)

type linesResponse struct {
	Lines []string `json:"lines"`
}

type statusResponse struct {
	Line   string `json:"line"`
	Status string `json:"status"`
}

type uptimeResponse struct {
	Line   string  `json:"line"`
	Uptime *string `json:"uptime"`
}

type healthResponse struct {
	Status         string `json:"status"`
	LinesTracked   int    `json:"lines_tracked"`
	LastCycleEpoch int64  `json:"last_cycle_epoch"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleLines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, linesResponse{Lines: s.store.Lines()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	line := r.PathValue("line")
	st, err := s.store.Status(line)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Line: line, Status: st.String()})
}

func (s *Server) handleUptime(w http.ResponseWriter, r *http.Request) {
	line := r.PathValue("line")
	frac, err := s.store.Uptime(line)
	switch {
	case errors.Is(err, uptime.ErrUnknownLine):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, uptime.ErrNoBaseline):
		// Known line, not enough history yet: uptime is null, not an error.
		writeJSON(w, http.StatusOK, uptimeResponse{Line: line, Uptime: nil})
	default:
		writeJSON(w, http.StatusOK, uptimeResponse{Line: line, Uptime: &frac})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         "ok",
		LinesTracked:   len(s.store.Lines()),
		LastCycleEpoch: s.engine.LastCycleEpoch(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
