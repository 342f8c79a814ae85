package server

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"croprec/internal/locale"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	// System endpoints (no rate limiting)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API endpoints with middleware
	predict := s.predictionHandler()
	r.Handle("/predict", predict).Methods(http.MethodPost)
	r.Handle("/v1/predict", predict).Methods(http.MethodPost)

	if s.config.ClientDir != "" {
		dir := s.config.ClientDir
		r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
		}).Methods(http.MethodGet)
		r.HandleFunc("/es", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(dir, "index.es.html"))
		}).Methods(http.MethodGet)
		r.PathPrefix("/static/").Handler(
			http.StripPrefix("/static/", http.FileServer(http.Dir(dir))),
		).Methods(http.MethodGet)
	} else {
		r.HandleFunc("/", s.handleDefault).Methods(http.MethodGet)
	}

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "HEAD", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization", "X-Request-Id"}),
	)(r)
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	resp := struct {
		Name      string   `json:"name"`
		Version   string   `json:"version"`
		Ready     bool     `json:"ready"`
		Timestamp string   `json:"timestamp"`
		Routes    []string `json:"routes"`
		Languages []string `json:"languages"`
	}{
		Name:      s.config.Name,
		Version:   s.config.Version,
		Ready:     s.IsReady(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes: []string{
			"POST /predict",
			"POST /v1/predict",
			"GET /health",
			"GET /ready",
			"GET /metrics",
		},
	}
	for _, tag := range locale.Supported() {
		resp.Languages = append(resp.Languages, tag.String())
	}

	RespondJSON(w, http.StatusOK, resp)
}
