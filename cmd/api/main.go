package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbearia-console/internal/app"
	"github.com/BruksfildServices01/barbearia-console/internal/config"
	"github.com/BruksfildServices01/barbearia-console/internal/routes"
	"github.com/BruksfildServices01/barbearia-console/internal/scheduler"
)

func main() {

	cfg := config.Load()

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Seed(ctx)

	sched := scheduler.New(a.Engine, a.Cash, a.Bus, cfg.MetricsRefresh, a.Location)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := gin.Default()
	hub := routes.RegisterRoutes(r, a.Routes())
	defer hub.Close()

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		log.Printf("Server running on %s (storage=%s)", cfg.Addr(), cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
