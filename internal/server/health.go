package server

import (
	"net/http"
	"time"
)

// ProbeResponse is the body of /health and /ready.
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Reason    string    `json:"reason,omitempty"`
}

func (s *Server) probe(status, reason string) ProbeResponse {
	return ProbeResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Reason:    reason,
	}
}

// handleHealth is the liveness probe. The model is trained before the server
// exists, so a running process can always answer.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	RespondJSON(w, http.StatusOK, s.probe("healthy", ""))
}

// handleReady reports whether the listener accepts predictions. It turns
// false again while shutting down.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.IsReady() {
		RespondJSON(w, http.StatusServiceUnavailable,
			s.probe("not_ready", "listener is not accepting predictions"))
		return
	}
	RespondJSON(w, http.StatusOK, s.probe("ready", ""))
}
