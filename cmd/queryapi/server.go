package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	core "github.com/DaveEstey/openbook-protocol/core"
)

// Server exposes read-only views over campaign/task/escrow/dispute state.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	log        *logrus.Logger
}

// NewServer constructs the router and HTTP server bound to addr.
func NewServer(addr string, lg *logrus.Logger, reg *prometheus.Registry) *Server {
	s := &Server{router: chi.NewRouter(), log: lg}
	s.router.Use(middleware.Logger)
	s.routes(reg)
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	return s
}

func (s *Server) Start() error { return s.httpServer.ListenAndServe() }

func (s *Server) routes(reg *prometheus.Registry) {
	s.router.Get("/campaigns/{creator}/{campaignID}", s.handleCampaign)
	s.router.Get("/campaigns/{creator}/{campaignID}/tasks/{taskID}", s.handleTask)
	s.router.Get("/campaigns/{creator}/{campaignID}/tasks/{taskID}/escrow", s.handleEscrow)
	s.router.Get("/campaigns/{creator}/{campaignID}/tasks/{taskID}/dispute", s.handleDispute)
	s.router.Get("/campaigns/{creator}/{campaignID}/tasks/{taskID}/proof", s.handleProof)
	s.router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	creator, err := core.ParseAddress(chi.URLParam(r, "creator"))
	if err != nil {
		http.Error(w, "bad creator address", http.StatusBadRequest)
		return
	}
	c, err := core.GetCampaign(creator, chi.URLParam(r, "campaignID"))
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTask(r)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, t)
}

func (s *Server) handleEscrow(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTask(r)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	esc, err := core.GetEscrow(t.PDA())
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, esc)
}

func (s *Server) handleDispute(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTask(r)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	d, err := core.GetDispute(t.PDA())
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, d)
}

func (s *Server) handleProof(w http.ResponseWriter, r *http.Request) {
	t, err := s.loadTask(r)
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	p, err := core.GetProof(t.PDA())
	if err != nil {
		writeNotFoundOr500(w, err)
		return
	}
	writeJSON(w, p)
}

func (s *Server) loadTask(r *http.Request) (*core.Task, error) {
	creator, err := core.ParseAddress(chi.URLParam(r, "creator"))
	if err != nil {
		return nil, err
	}
	return core.GetTask(creator, chi.URLParam(r, "campaignID"), chi.URLParam(r, "taskID"))
}

func writeNotFoundOr500(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if err == core.ErrNotFound || err == core.ErrNoProofSubmitted {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
