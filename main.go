package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meeting-scheduler/api"
	"meeting-scheduler/config"
	"meeting-scheduler/database"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	app := &cli.App{
		Name:  "meeting-scheduler",
		Usage: "Calendar slots, availability and meeting booking over HTTP.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Value: cfg.DSN, Usage: "Postgres connection string."},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "debug, info, warn or error."},
		},
		Commands: []*cli.Command{
			serveCommand(cfg),
			migrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand(cfg config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Value: cfg.Port, Usage: "Port to listen on."},
			&cli.BoolFlag{Name: "migrate", Usage: "Apply the schema before serving."},
		},
		Action: func(c *cli.Context) error {
			logger := config.NewLogger(c.String("log-level"))

			db, err := database.Connect(c.String("dsn"))
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()
			logger.Info("connected to database")

			if c.Bool("migrate") {
				if err := database.Migrate(c.Context, db); err != nil {
					return err
				}
				logger.Info("schema applied")
			}

			service := api.NewAPI(db, api.Options{
				Logger:         logger,
				AllowedOrigins: cfg.AllowedOrigins,
				RateLimitRPS:   cfg.RateLimitRPS,
				RateLimitBurst: cfg.RateLimitBurst,
				SearchLimit:    cfg.SearchLimit,
			})
			service.RegisterRoutes()

			srv := &http.Server{
				Addr:              ":" + c.String("port"),
				Handler:           service.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			if limiter := service.Limiter(); limiter != nil {
				g.Go(func() error {
					limiter.Run(gctx)
					return nil
				})
			}
			g.Go(func() error {
				logger.Info("server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("listen: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create the tables and indexes if they do not exist.",
		Action: func(c *cli.Context) error {
			logger := config.NewLogger(c.String("log-level"))

			db, err := database.Connect(c.String("dsn"))
			if err != nil {
				return fmt.Errorf("database connect: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(c.Context, db); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
}
