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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/threadboard/backend/internal/config"
	"github.com/emilythestrangee/threadboard/backend/internal/database"
	"github.com/emilythestrangee/threadboard/backend/internal/logger"
	"github.com/emilythestrangee/threadboard/backend/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "threadboard",
		Short:         "Posts and threaded comments API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap(envFile)
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Migrate()
		},
	}

	root.AddCommand(serve, migrate)
	// no subcommand means serve
	root.RunE = serve.RunE
	return root
}

// bootstrap loads config, sets up logging and opens the database.
func bootstrap(envFile string) (*config.Config, database.Service, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return nil, nil, err
	}
	logger.Init(cfg.Log)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize database")
		return nil, nil, err
	}
	return cfg, db, nil
}

func runServe(ctx context.Context, envFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Error().Err(err).Msg("migrations failed")
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.NewServer(cfg, db)
	if err != nil {
		log.Error().Err(err).Msg("failed to build server")
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
