package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iamasit07/dropfour/internal/config"
	"github.com/iamasit07/dropfour/internal/repository/postgres"
	"github.com/iamasit07/dropfour/internal/repository/redis"
	"github.com/iamasit07/dropfour/internal/service/cleanup"
	"github.com/iamasit07/dropfour/internal/service/game"
	transportHttp "github.com/iamasit07/dropfour/internal/transport/http"
	"github.com/iamasit07/dropfour/internal/transport/websocket"
	"github.com/iamasit07/dropfour/pkg/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()

	// 1. Archive (optional)
	var gameRepo *postgres.GameRepo
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DBDriver, cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")

		gameRepo = postgres.NewGameRepo(db)
	} else {
		log.Println("[DB] DATABASE_URL not set, game archive disabled")
	}

	// 2. Snapshot cache (optional)
	if err := redis.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Printf("Failed to initialize Redis: %v", err)
	}
	defer redis.CloseRedis()

	var cache game.CacheRepository
	if redis.IsRedisEnabled() && redis.RedisClient != nil {
		cache = redis.NewRedisCache(redis.RedisClient)
	}

	// 3. Services
	seatTokens := auth.NewSeatTokens(cfg.JWTSecret, cfg.SeatTokenTTL)
	connManager := websocket.NewConnectionManager()

	// typed nils must not leak into the interfaces below
	var (
		archiveWriter game.GameRepository
		archiveReader transportHttp.GameArchive
		archivePruner cleanup.ArchiveStore
	)
	if gameRepo != nil {
		archiveWriter, archiveReader, archivePruner = gameRepo, gameRepo, gameRepo
	}

	sessionManager := game.NewSessionManager(archiveWriter, cache, connManager, seatTokens, game.Options{
		BotMoveDelay: cfg.BotMoveDelay,
		BotDepth:     cfg.BotDepth,
		SnapshotTTL:  cfg.SnapshotTTL,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cleanupWorker := cleanup.NewWorker(sessionManager, archivePruner, cleanup.Config{
		Interval:           cfg.CleanupInterval,
		SessionIdleTimeout: cfg.SessionIdleTimeout,
		FinishedSessionTTL: cfg.FinishedSessionTTL,
		RetentionDays:      cfg.ArchiveRetentionDays,
	})
	cleanupWorker.Start(ctx)

	// 4. Transport
	wsHandler := websocket.NewHandler(connManager, sessionManager, seatTokens)
	router := transportHttp.Router{
		Games:     transportHttp.NewGameHandler(sessionManager, strings.HasPrefix(cfg.FrontendURL, "https://"), cfg.SeatTokenTTL),
		History:   transportHttp.NewHistoryHandler(archiveReader),
		Watch:     transportHttp.NewWatchHandler(sessionManager),
		Seats:     seatTokens,
		WebSocket: wsHandler.HandleWebSocket,
	}.Engine()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	connManager.CloseAll()
	sessionManager.WaitForArchives()

	log.Println("Server exited gracefully")
}
