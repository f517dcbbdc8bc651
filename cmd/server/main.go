package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leaveledger/internal/config"
	eventskafka "leaveledger/internal/events/kafka"
	eventsmem "leaveledger/internal/events/memory"
	"leaveledger/internal/interfaces"
	"leaveledger/internal/ledger"
	"leaveledger/internal/obs"
	"leaveledger/internal/registry"
	"leaveledger/internal/slackbridge"
	memstore "leaveledger/internal/storage/memory"
	sheetstore "leaveledger/internal/storage/sheets"
	"leaveledger/internal/workflow"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	var store interfaces.SheetStore
	if cfg.GoogleSheetID != "" {
		s, err := sheetstore.New(ctx, cfg.ServiceAccountFile, cfg.GoogleSheetID, cfg.SheetRange)
		if err != nil {
			logger.Error("sheets client setup failed", "err", err)
			os.Exit(1)
		}
		store = s
	} else {
		logger.Warn("GOOGLE_SHEET_ID not set, keeping the ledger in memory")
		store = memstore.NewStore(nil)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := eventskafka.NewPublisher(cfg.KafkaBrokers, workflow.EventTopic)
		defer p.Close()
		publisher = p
	} else {
		publisher = eventsmem.NewPublisher()
	}

	metrics := obs.NewMetrics()
	promReg := prometheus.NewRegistry()
	metrics.Register(promReg)

	engine := workflow.NewEngine(
		ledger.NewAccessor(store, nil),
		registry.New(cfg.RegistryCapacity, cfg.RegistryTTL),
		slackbridge.New(cfg.SlackToken),
		publisher,
		metrics,
		logger,
	)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: newMux(engine, metrics, logger, promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	logger.Info("listening",
		"addr", cfg.Addr,
		"sheet_range", cfg.SheetRange,
		"kafka", len(cfg.KafkaBrokers) > 0,
	)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}
}
