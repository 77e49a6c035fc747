package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/crank"
	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/dispatch"
)

// Server exposes a Fleet over a JSON control API.
type Server struct {
	Fleet    *Fleet
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// NewHandler creates a new HTTP handler for the fleet. Metrics are served on
// /metrics when gatherer is not nil.
func NewHandler(fleet *Fleet, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{Fleet: fleet, Gatherer: gatherer, Logger: logger}
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Post("/", s.CreateMachine)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetMachine)
			r.Post("/events/{event}", s.PostEvent)
			r.Post("/{control}", s.Control)
		})
	})
	return r
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "crank-http",
		"version":     crank.Version,
		"api_version": "0.1.0",
	})
}

// ListMachines handles GET /machines.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Fleet.List())
}

// CreateMachine handles POST /machines.
func (s *Server) CreateMachine(w http.ResponseWriter, r *http.Request) {
	m, err := s.Fleet.Spawn()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusCreated, m.Snapshot())
}

// GetMachine handles GET /machines/{id}.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	m, ok := s.machine(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, m.Snapshot())
}

// PostEvent handles POST /machines/{id}/events/{event}. The event is queued
// and processed asynchronously.
func (s *Server) PostEvent(w http.ResponseWriter, r *http.Request) {
	m, ok := s.machine(w, r)
	if !ok {
		return
	}
	if err := m.PostName(chi.URLParam(r, "event")); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, http.StatusAccepted, m.Snapshot())
}

// Control handles POST /machines/{id}/{start|stop|pause|resume|step}.
func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	m, ok := s.machine(w, r)
	if !ok {
		return
	}
	controls := map[string]func(){
		"start":  m.Start,
		"stop":   m.Stop,
		"pause":  m.Pause,
		"resume": m.Resume,
		"step":   m.Step,
	}
	name := chi.URLParam(r, "control")
	fn, ok := controls[name]
	if !ok {
		http.Error(w, "unknown control "+name, http.StatusNotFound)
		return
	}
	fn()
	s.Logger.Info("machine control", "machine", m.ID(), "control", name)
	s.writeJSON(w, http.StatusAccepted, m.Snapshot())
}

func (s *Server) machine(w http.ResponseWriter, r *http.Request) (*dispatch.Machine, bool) {
	m, err := s.Fleet.Get(chi.URLParam(r, "id"))
	if errors.Is(err, ErrMachineNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return m, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", "error", err)
	}
}
