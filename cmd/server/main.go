package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/byronwade/rebuzzle/internal/api"
	"github.com/byronwade/rebuzzle/internal/config"
	"github.com/byronwade/rebuzzle/internal/db"
	"github.com/byronwade/rebuzzle/internal/generator"
	"github.com/byronwade/rebuzzle/internal/logger"
	"github.com/byronwade/rebuzzle/internal/models"
	"github.com/byronwade/rebuzzle/internal/push"
	"github.com/byronwade/rebuzzle/internal/repository/sqlite"
	"github.com/byronwade/rebuzzle/internal/scheduler"
	"github.com/byronwade/rebuzzle/internal/services"
	"github.com/byronwade/rebuzzle/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Rebuzzle Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("ai_model=%s", cfg.AIModel)
	log.Debug("ai_max_attempts=%d", cfg.AIMaxAttempts)
	log.Debug("ai_quality_threshold=%d", cfg.AIQualityThreshold)
	log.Debug("max_guesses_per_day=%d", cfg.MaxGuessesPerDay)
	log.Debug("scheduler_enabled=%v", cfg.SchedulerEnabled)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	puzzleRepo := sqlite.NewPuzzleRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)
	subRepo := sqlite.NewSubscriptionRepository(database.DB)
	genRepo := sqlite.NewGenerationRepository(database.DB)

	// Background pools and the fire-and-forget queue
	logPool := worker.NewPool("genlog", cfg.LogWorkerCount, cfg.LogQueueSize)
	pushPool := worker.NewPool("push", cfg.PushWorkerCount, cfg.PushQueueSize)
	sender := push.NewWebPushSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)
	queue := worker.NewQueue(logPool, pushPool, genRepo, subRepo, sender)

	// Generator
	provider := generator.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel,
		time.Duration(cfg.AIRequestTimeout)*time.Second)
	gen := generator.New(provider, cfg.AIMaxAttempts)

	// Services
	puzzleService := services.NewPuzzleService(puzzleRepo, attemptRepo, gen, queue, services.GenerationSettings{
		TargetDifficulty: cfg.AITargetDifficulty,
		QualityThreshold: cfg.AIQualityThreshold,
		PuzzleType:       models.PuzzleTypeRebus,
		RequireNovelty:   true,
	})
	gameService := services.NewGameService(puzzleRepo, attemptRepo, statsRepo, cfg.MaxGuessesPerDay)
	statsService := services.NewStatsService(statsRepo, attemptRepo)
	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(subRepo, queue)

	srv := &api.Server{
		DB:                 database,
		Puzzles:            puzzleService,
		Game:               gameService,
		Stats:              statsService,
		Users:              userService,
		Notifications:      notificationService,
		CronSecret:         cfg.CronSecret,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
		CORSOrigins:        cfg.CORSOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	logPool.Start(ctx)
	pushPool.Start(ctx)

	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched = scheduler.New(puzzleService, notificationService, cfg.SchedulerSpec)
		if err := sched.Start(ctx); err != nil {
			log.Error("failed to start scheduler: %v", err)
			os.Exit(1)
		}
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if sched != nil {
		log.Debug("stopping scheduler")
		sched.Stop()
	}

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping worker pools")
	cancel()
	logPool.Stop()
	pushPool.Stop()

	log.Info("===========================================")
	log.Info("Rebuzzle Server Stopped")
	log.Info("===========================================")
}
