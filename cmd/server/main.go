package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rob-Kornblum/legal-ease/internal/config"
	"github.com/Rob-Kornblum/legal-ease/internal/handler"
	"github.com/Rob-Kornblum/legal-ease/internal/logger"
	"github.com/Rob-Kornblum/legal-ease/internal/metrics"
	"github.com/Rob-Kornblum/legal-ease/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	log := logger.Init(cfg.Log)

	m := metrics.New()
	api := service.NewSimplifyClient(cfg.API.BaseURL, cfg.API.Timeout, m)
	sessions := handler.NewSessions(cfg.Session.TTL, func() *service.Translator {
		return service.NewTranslator(api)
	}, m)

	r, err := handler.NewRouter(handler.NewTranslatorHandler(sessions, cfg.API.BaseURL), m)
	if err != nil {
		log.Error("load templates failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sessions.Run(ctx, time.Minute)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info("server starting", "addr", cfg.Addr(), "api", cfg.API.BaseURL,
			"initial_status", service.InitialStatus(cfg.API.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", "err", err)
	}
	log.Info("server stopped")
}
