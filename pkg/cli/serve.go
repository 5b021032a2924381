package cli

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/server"
)

func newServeCommand() *Command {
	cmd := &Command{
		Name:        "serve",
		Description: "Run the resolution API server",
		Flags:       flag.NewFlagSet("serve", flag.ExitOnError),
		Run:         runServe,
	}

	cmd.Flags.String("port", "", "Port to listen on (overrides configuration)")

	return cmd
}

func runServe(args []string) error {
	cmd := newServeCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	port := cmd.Flags.Lookup("port").Value.String()
	if port != "" {
		cfg.Server.Port = port
	}

	metrics := observability.NewMetrics(nil)

	res, store, err := buildResolver(cfg, log, metrics)
	if err != nil {
		return err
	}

	srv := server.NewServer(res, cfg.Server, cfg.Branches, log, metrics)
	srv.RegisterReadyCheck("index", func() error {
		if _, err := os.Stat(store.Root()); err != nil {
			return fmt.Errorf("local index unavailable: %w", err)
		}
		return nil
	})
	srv.RegisterReadyCheck("credential", func() error {
		if cfg.Remote.Token == "" {
			return fmt.Errorf("no GitHub token configured")
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

	errChan := make(chan error, 1)
	go func() {
		log.Infof("Starting resolution server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	shutdownDone := make(chan error, 1)
	go func() {
		shutdownDone <- shutdown.WaitForShutdown()
	}()

	select {
	case err := <-errChan:
		return err
	case err := <-shutdownDone:
		return err
	}
}
