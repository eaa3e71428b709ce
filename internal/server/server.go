// Package server exposes the governance query results over a JSON API.
// Every request recomputes from upstream; a failed required fetch
// renders a failure status, never partial charts.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/delegates"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/governance"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/upstream"
)

// Server routes governance queries to the service.
type Server struct {
	svc    *governance.Service
	logger *zap.Logger
}

// New creates a server around the governance service.
func New(svc *governance.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{svc: svc, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/governance", s.handleGovernance).Methods(http.MethodGet)
	r.HandleFunc("/api/staked", s.handleStaked).Methods(http.MethodGet)
	r.HandleFunc("/api/balances", s.handleBalances).Methods(http.MethodGet)
	r.HandleFunc("/api/balances/grouped", s.handleGroupedBalances).Methods(http.MethodGet)
	r.HandleFunc("/api/delegates/balances", s.handleDelegateBalances).Methods(http.MethodGet)
	r.HandleFunc("/api/polls/voters", s.handlePollVoters).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) handleGovernance(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.GovernanceData(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, data)
}

func (s *Server) handleStaked(w http.ResponseWriter, r *http.Request) {
	data, err := s.svc.StakedMKR(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, data)
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	gov, err := s.svc.GovernanceData(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	staked, err := s.svc.StakedMKR(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, s.svc.MKRBalances(gov.AllDelegations, staked.StakeEvents))
}

func (s *Server) handleGroupedBalances(w http.ResponseWriter, r *http.Request) {
	gov, err := s.svc.GovernanceData(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	staked, err := s.svc.StakedMKR(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	history := s.svc.MKRBalances(gov.AllDelegations, staked.StakeEvents)
	s.writeJSON(w, s.svc.GroupedBalances(gov.TopDelegates, history))
}

func (s *Server) handleDelegateBalances(w http.ResponseWriter, r *http.Request) {
	gov, err := s.svc.GovernanceData(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	history, err := s.svc.DelegateBalances(gov.AllDelegations, gov.TopDelegates)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, history)
}

func (s *Server) handlePollVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := s.svc.PollVoters(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, voters)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// writeError maps the error taxonomy to statuses: upstream failures are
// bad gateways, an unknown delegate reference makes only that view
// unavailable, anything else is internal.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, upstream.ErrUpstream):
		status = http.StatusBadGateway
	case errors.Is(err, delegates.ErrUnknownDelegate):
		status = http.StatusServiceUnavailable
	}

	s.logger.Error("request failed", zap.Error(err), zap.Int("status", status))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
