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

	"github.com/LavaJover/shvark-ftd-service/internal/app/background"
	"github.com/LavaJover/shvark-ftd-service/internal/app/setup"
	"github.com/LavaJover/shvark-ftd-service/internal/infrastructure/migrate"
	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "run a single attribution pass and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	if err := run(*once); err != nil {
		log.Fatalf("ftd-service: %v", err)
	}
}

func run(once bool) error {
	deps, err := setup.InitializeDependencies()
	if err != nil {
		return err
	}
	defer deps.Close()
	logger := deps.Logger

	if err := migrate.RunMigrations(deps.DB, deps.Config.FtdDB.MigrationsPath, logger); err != nil {
		return err
	}

	ucs := setup.InitializeUseCases(deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if once {
		report, err := ucs.AttributionUsecase.RunDaily(context.WithoutCancel(ctx))
		if err != nil {
			return err
		}
		logger.Info("single run finished", "run_id", report.RunID, "assigned", report.Assigned)
		return nil
	}

	tasks := background.NewBackgroundTasks(
		ucs.AttributionUsecase,
		deps.Config.Distribution.Schedule,
		deps.Location,
		deps.Config.Distribution.RunOnStart,
		logger.With("component", "scheduler"),
	)
	if err := tasks.StartAll(ctx); err != nil {
		return err
	}

	server := setup.InitializeHTTPServer(deps, ucs)
	go func() {
		logger.Info("admin http server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin http server shutdown failed", "error", err)
	}

	select {
	case <-tasks.Stop().Done():
		logger.Info("scheduler stopped gracefully")
	case <-shutdownCtx.Done():
		logger.Warn("scheduler did not stop in time")
	}
	return nil
}
