package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagerank-bench/internal/repository"
	"github.com/pagerank-bench/internal/service"
	"github.com/pagerank-bench/internal/storage"
	"github.com/pagerank-bench/internal/webui"
)

var (
	// Serve command flags
	servePort      int
	serveScheduler bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve persisted runs over HTTP, optionally with the sweep scheduler",
	Long: `Start an HTTP server exposing persisted PageRank runs:

  GET /api/runs          recent runs (filter with ?graph=..., ?limit=...)
  GET /api/runs/{uuid}   one run's options and timings
  GET /api/ranks/{uuid}  the run's solved rank vector (JSON)
  GET /healthz           repository health

With --scheduler the background sweep service also starts: it polls the
configured run sources for pending solves, executes them, and persists
their results, so the API reflects new runs as they complete.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	binName := BinName()
	serveCmd.Example = `  # Serve the results API on the default port
  ` + binName + ` serve

  # Serve and process queued sweep runs
  ` + binName + ` serve -p 9090 --scheduler`

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port for the HTTP server")
	serveCmd.Flags().BoolVar(&serveScheduler, "scheduler", false, "Also run the background sweep scheduler")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	conf := GetConfig()

	gormDB, err := repository.NewGormDB(&repository.DBConfig{
		Type:     conf.Database.Type,
		Host:     conf.Database.Host,
		Port:     conf.Database.Port,
		Database: conf.Database.Database,
		User:     conf.Database.User,
		Password: conf.Database.Password,
		MaxConns: conf.Database.MaxConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repos := repository.NewRepositories(gormDB)
	defer repos.Close()

	store, err := storage.NewStorage(&conf.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var svc *service.Service
	if serveScheduler {
		svc, err = service.New(conf, log)
		if err != nil {
			return err
		}
		if err := svc.Initialize(ctx); err != nil {
			return err
		}
		if err := svc.Start(ctx); err != nil {
			return err
		}
		log.Info("Sweep scheduler started")
	}

	server := webui.NewServer(servePort, repos.Run, store, log)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutting down...")
		if svc != nil {
			if err := svc.Stop(); err != nil {
				log.Error("Error stopping scheduler: %v", err)
			}
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
		cancel()
	}()

	if err := server.Start(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
