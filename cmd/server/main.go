// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"
	"time"

	"castlecare_backend/internal/config"
	"castlecare_backend/internal/hiring"
	"castlecare_backend/internal/platform/database"
	"castlecare_backend/internal/platform/logger"

	"go.uber.org/zap"
)

func main() {
	// Define CLI flags
	purgeDraftsCmd := flag.NewFlagSet("purge-drafts", flag.ExitOnError)
	olderThanHours := purgeDraftsCmd.Int("older-than-hours", 0, "Purge drafts abandoned for at least this many hours (0 uses HIRING_ABANDONED_AFTER_HOURS)")

	if len(os.Args) > 1 && os.Args[1] == "purge-drafts" {
		purgeDraftsCmd.Parse(os.Args[2:])

		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("FATAL: Failed to load configuration for purge: %v", err)
		}
		appLogger, err := logger.New(cfg)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize logger for purge: %v", err)
		}
		redisClient, err := database.NewRedis(cfg)
		if err != nil {
			appLogger.Fatal("FATAL: Failed to initialize Redis for purge", zap.Error(err))
		}
		defer redisClient.Close()

		olderThan := cfg.AbandonedDraftAfter
		if *olderThanHours > 0 {
			olderThan = time.Duration(*olderThanHours) * time.Hour
		}

		store := hiring.NewRedisStore(redisClient, cfg, appLogger)
		if err := runDraftPurge(store, appLogger, olderThan); err != nil {
			appLogger.Fatal("FATAL: Draft purge failed", zap.Error(err))
		}
		appLogger.Info("Draft purge completed successfully.")
		return // Exit after purge command
	}

	// Default: Start server
	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	if err := server.Migrate(); err != nil {
		server.AppLogger.Fatal("FATAL: Database migration failed", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runDraftPurge removes hiring drafts whose sign-up handoff was issued but
// never completed within the given window.
func runDraftPurge(store hiring.Store, logger *zap.Logger, olderThan time.Duration) error {
	logger.Info("Starting abandoned draft purge...", zap.Duration("olderThan", olderThan))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	draftIDs, err := store.ScanAbandonedHandoffs(ctx, olderThan)
	if err != nil {
		return err
	}

	purged := 0
	for _, draftID := range draftIDs {
		if err := store.ClearPendingHandoff(ctx, draftID); err != nil {
			logger.Error("Failed to clear handoff marker", zap.String("draftID", draftID), zap.Error(err))
			continue
		}
		if err := store.Reset(ctx, draftID); err != nil {
			logger.Error("Failed to reset draft", zap.String("draftID", draftID), zap.Error(err))
			continue
		}
		purged++
	}

	logger.Info("Abandoned draft purge finished.",
		zap.Int("candidates", len(draftIDs)),
		zap.Int("purged", purged),
	)
	return nil
}
