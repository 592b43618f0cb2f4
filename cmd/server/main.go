package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"vouch/internal/audit"
	"vouch/internal/check"
	"vouch/internal/check/aggregator"
	checkmetrics "vouch/internal/check/metrics"
	"vouch/internal/check/models"
	"vouch/internal/check/resolver"
	"vouch/internal/fetch"
	fetchmetrics "vouch/internal/fetch/metrics"
	"vouch/internal/platform/config"
	"vouch/internal/platform/httpserver"
	"vouch/internal/platform/logger"
	httptransport "vouch/internal/transport/http"
	"vouch/internal/upstream"
)

const auditInboxSize = 256

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	cached, err := fetch.New(http.DefaultClient, fetch.NewInMemoryStore(),
		fetch.WithLogger(log),
		fetch.WithMetrics(fetchmetrics.New()),
		fetch.WithBackoff(cfg.Backoff),
		fetch.WithAttempts(cfg.MaxAttempts),
	)
	if err != nil {
		log.Error("build fetch client", "error", err)
		os.Exit(1)
	}

	profiles, err := upstream.New(cfg.UpstreamURL, cached, http.DefaultClient)
	if err != nil {
		log.Error("build upstream client", "error", err)
		os.Exit(1)
	}

	res, err := resolver.New(profiles, resolver.WithLogger(log), resolver.WithBackoff(cfg.Backoff))
	if err != nil {
		log.Error("build resolver", "error", err)
		os.Exit(1)
	}

	pipelineMetrics := checkmetrics.New()
	agg, err := aggregator.New(profiles, aggregator.WithLogger(log), aggregator.WithMetrics(pipelineMetrics))
	if err != nil {
		log.Error("build aggregator", "error", err)
		os.Exit(1)
	}

	inbox := make(chan audit.Event, auditInboxSize)
	auditWorker := audit.NewWorker(audit.NewInMemoryStore(), inbox)

	thresholds := models.ThresholdPolicy{
		MinAccountAgeDays: cfg.Policy.MinAccountAgeDays,
		MinFriends:        cfg.Policy.MinFriends,
		MinGroups:         cfg.Policy.MinGroups,
	}
	svc, err := check.New(res, agg, thresholds,
		check.WithLogger(log),
		check.WithMetrics(pipelineMetrics),
		check.WithAuditPublisher(audit.NewPublisher(inbox, log)),
	)
	if err != nil {
		log.Error("build check service", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(httptransport.New(svc, log))
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting vouch server", "addr", cfg.Addr, "upstream", cfg.UpstreamURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := auditWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
