package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"boothvoice/internal/bot"
	"boothvoice/internal/media"
	"boothvoice/internal/store"
	"boothvoice/internal/whatsapp"
	"boothvoice/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config

	engine   *bot.Engine
	sender   *whatsapp.Sender
	archiver *media.Archiver

	voterRepo     *store.VoterRepository
	grievanceRepo *store.GrievanceRepository
	memberRepo    *store.MemberRequestRepository

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	engine *bot.Engine,
	sender *whatsapp.Sender,
	archiver *media.Archiver,
	voterRepo *store.VoterRepository,
	grievanceRepo *store.GrievanceRepository,
	memberRepo *store.MemberRequestRepository,
) *Service {
	mux := flow.New()

	s := &Service{
		logger:   logger,
		config:   config,
		engine:   engine,
		sender:   sender,
		archiver: archiver,

		voterRepo:     voterRepo,
		grievanceRepo: grievanceRepo,
		memberRepo:    memberRepo,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleRoot, http.MethodGet)

	r.HandleFunc("/webhook", s.handleVerifyWebhook, http.MethodGet)
	r.HandleFunc("/webhook", s.handleWebhook, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.CORSMiddleware)

		r.HandleFunc("/api/dashboard/stats", s.handleStats, http.MethodGet)
		r.HandleFunc("/api/dashboard/grievances", s.handleRecentGrievances, http.MethodGet)
		r.HandleFunc("/api/dashboard/all_grievances", s.handleAllGrievances, http.MethodGet)
		r.HandleFunc("/api/dashboard/suggestions", s.handleSuggestions, http.MethodGet)
		r.HandleFunc("/api/dashboard/volunteers", s.handleVolunteers, http.MethodGet)
		r.HandleFunc("/api/dashboard/booth_analytics", s.handleBoothAnalytics, http.MethodGet)
		r.HandleFunc("/api/dashboard/voters", s.handleVoters, http.MethodGet)
		r.HandleFunc("/api/dashboard/update_status", s.handleUpdateStatus, http.MethodPost)
	})
}

func (s *Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Backend is running",
	})
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	s.respondJSON(w, http.StatusInternalServerError, map[string]string{"status": "error"})
}
