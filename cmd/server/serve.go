package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/internal/config"
	"github.com/String-Atharv/Event-Hub-sub001/oidcclient"
	"github.com/String-Atharv/Event-Hub-sub001/server"
	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	port    string
	dataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front-end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.EnvVars.Port = port
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.Storage.DataDir = dataDir
		}

		setupLogging(cfg)
		displayAppname(cfg.GetAppName())
		return run(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "port to listen on (overrides PORT)")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "directory for the credential store (overrides DATA_DIR)")
	rootCmd.AddCommand(serveCmd)
}

func run(parent context.Context, cfg *config.Settings) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := oidcclient.FromConfig(ctx, store, cfg)
	if err != nil {
		return err
	}

	handler, err := server.New(cfg, store, client)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// A failed listener cancels gctx so the shutdown goroutine returns too.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		return shutdown(srv)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

func openStore(cfg *config.Settings) (credstore.Store, func(), error) {
	if cfg.GetStoreBackend() == config.StoreBackendMemory {
		log.Warn().Msg("Using in-memory credential store; sessions are lost on restart")
		return credstore.NewMemoryStore(), func() {}, nil
	}

	store, err := credstore.OpenBoltStore(cfg.GetCredentialDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Err(err).Msg("Failed to close credential store")
		}
	}, nil
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func setupLogging(cfg config.EnvConfig) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
