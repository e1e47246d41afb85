package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"vidgate/api"
	"vidgate/config"
	"vidgate/handlers"
	"vidgate/internal/database"
	"vidgate/services/history"
	"vidgate/services/resolver"
	"vidgate/services/upstream"
	"vidgate/utils"

	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	fmt.Println("🚀 vidgate Backend Starting...")

	// Determine config path (env or default)
	configPath := os.Getenv("VIDGATE_CONFIG")
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			// Redirect standard log to both console and file
			multiWriter := io.MultiWriter(os.Stdout, fileWriter)
			log.SetOutput(multiWriter)
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	// Candidate pool. A forced instance (env or config) replaces the whole
	// configured list so every request goes to exactly one place.
	candidates := settings.UpstreamCandidates()
	if forced := os.Getenv(config.EnvForcedInstance); forced != "" {
		log.Printf("Upstream instance forced via %s: %s", config.EnvForcedInstance, forced)
	}
	registry := upstream.NewRegistry(candidates)
	if registry.Len() == 0 {
		log.Fatal("no upstream instances configured")
	}
	fmt.Printf("📡 %d upstream instance(s) registered\n", registry.Len())

	aliveSet := upstream.NewAliveSet()
	prober := upstream.NewProber(registry, aliveSet,
		time.Duration(settings.Upstream.ProbeTimeoutSec)*time.Second,
		time.Duration(settings.Upstream.HealthCheckIntervalSec)*time.Second)
	if err := prober.Start(context.Background()); err != nil {
		log.Fatalf("failed to start prober: %v", err)
	}

	resolverSvc := resolver.NewService(registry, aliveSet,
		time.Duration(settings.Upstream.ResolveTimeoutSec)*time.Second)

	// Resolution history store
	db, err := database.NewDB(database.Config{DatabasePath: settings.Database.Path})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	historySvc := history.NewService(database.NewResolutionRepository(db.Connection()))

	// Handlers
	resolveHandler := handlers.NewResolveHandler(resolverSvc)
	resolveHandler.SetHistoryRecorder(historySvc)

	instancesHandler := handlers.NewInstancesHandler(prober)
	instancesHandler.SetServedCounter(historySvc)

	historyHandler := handlers.NewHistoryHandler(historySvc)
	pageHandler := handlers.NewPageHandler(resolverSvc,
		time.Duration(settings.Upstream.ResolveTimeoutSec)*time.Second)

	r := utils.NewRouter()
	api.Register(r, resolveHandler, instancesHandler, historyHandler, pageHandler)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := prober.Stop(shutdownCtx); err != nil {
		log.Printf("Prober shutdown error: %v", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
