package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/artifact"
	"github.com/bindlehq/bindle/pkg/commits"
	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/resolver"
	"github.com/bindlehq/bindle/pkg/server"
)

func main() {
	// Parse command line flags
	port := flag.String("port", "", "Port to listen on (overrides configuration)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if cfg.Remote.Token == "" {
		log.Fatal("No GitHub token configured: set BINDLE_GITHUB_TOKEN or GITHUB_TOKEN")
	}

	metrics := observability.NewMetrics(nil)

	store, err := artifact.NewStore(cfg.Index.LocalDir, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to open local index")
	}
	store.SetMetrics(metrics)
	log.Infof("Local index initialized in %s", store.Root())

	client := commits.NewClient(cfg.Remote.GraphQLEndpoint, cfg.Remote.Token, log)
	res := resolver.New(client, store, resolver.Options{
		InternalPrefix: cfg.Index.InternalPrefix,
		Workers:        cfg.Workers,
		Log:            log,
		Metrics:        metrics,
	})

	srv := server.NewServer(res, cfg.Server, cfg.Branches, log, metrics)
	srv.RegisterReadyCheck("index", func() error {
		if _, err := os.Stat(store.Root()); err != nil {
			return fmt.Errorf("local index unavailable: %w", err)
		}
		return nil
	})

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(log, httpServer, cfg.Server.ShutdownTimeout)

	go func() {
		log.Infof("Starting bindle resolution server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		log.WithError(err).Fatal("Shutdown failed")
	}
}
