package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joelkehle/idea-simulation-engine/internal/app"
	"github.com/joelkehle/idea-simulation-engine/internal/config"
	"github.com/joelkehle/idea-simulation-engine/internal/httpapi"
	"github.com/joelkehle/idea-simulation-engine/internal/platform/logger"
	"github.com/joelkehle/idea-simulation-engine/internal/telemetry"
)

func main() {
	addr := flag.String("addr", "", "Listen address (overrides ADDR/PORT)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	lg, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
	if err != nil {
		lg.Warn("tracing disabled", "error", err)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = shutdownTracing(sctx)
	}()

	a, err := app.New(cfg, lg)
	if err != nil {
		lg.Fatal("startup failed", "error", err)
	}
	defer a.Close()

	handler := httpapi.NewServer(httpapi.Options{
		Simulator:       a.Engine,
		Reports:         a.Publisher,
		Knowledge:       a.Knowledge,
		ProcessingDelay: cfg.Server.ProcessingDelay,
		Logger:          lg,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
	}()

	lg.Info("idea-sim listening",
		"addr", cfg.Server.Addr,
		"report_dir", cfg.Reports.Dir,
		"report_index", cfg.Reports.Index,
		"enricher", cfg.Enricher.Mode,
		"knowledge_degraded", a.Knowledge.Degraded(),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("server stopped", "error", err)
	}
}
