package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/backend"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/platform/logging"
	"leavedesk/internal/platform/metrics"
	leavehandler "leavedesk/internal/transport/http/handlers/leave"
	"leavedesk/internal/transport/http/middleware"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("configuration load failed")
	}
	logging.Init(cfg.App.Environment)
	if cfg.MetricsEnabled() {
		metrics.Init()
	}

	ctx := context.Background()

	client := backend.New(cfg.Backend.BaseURL, cfg.BackendTimeout())
	calendar := leave.NewCalendar()

	jobsSvc := jobs.New(client, calendar)
	jobsSvc.Start(ctx, cfg.HolidayRefreshInterval())
	if size, err := jobsSvc.RefreshNow(ctx); err != nil {
		log.WithError(err).Warn("initial holiday load failed, continuing with an empty calendar")
	} else {
		log.WithField("holidays", size).Info("holiday calendar loaded")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recover)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			http.Error(w, "backend not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled() {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		leaveHandler := leavehandler.NewHandler(cfg.LeaveSchedule(), calendar, client, jobsSvc)
		leaveHandler.RegisterRoutes(r)
	})

	log.WithField("addr", cfg.App.Addr).Info("leavedesk server listening")
	if err := http.ListenAndServe(cfg.App.Addr, router); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
