package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-insight/internal/logger"
	"asset-insight/internal/server"
	"asset-insight/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	cfg, err := loadConfig(ctx)
	if err != nil {
		log.Fatal(err)
	}

	rec := initializeRecorder(ctx, cfg)
	defer rec.Close()

	srv := server.New(cfg, initializeAnalyzer(ctx, cfg, rec))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-sigc:
		logger.Info(ctx, "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithErr(ctx, "Shutdown error", err)
		}
		if err := trace.Shutdown(shutdownCtx); err != nil {
			logger.ErrorWithErr(ctx, "Trace shutdown error", err)
		}
	}
}
