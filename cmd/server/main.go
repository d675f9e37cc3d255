package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/familytree/internal/handlers"
	"github.com/alimgiray/familytree/internal/repositories"
	"github.com/alimgiray/familytree/internal/services"
	"github.com/alimgiray/familytree/internal/workers"
	"github.com/alimgiray/familytree/pkg/config"
	"github.com/alimgiray/familytree/pkg/database"
	"github.com/alimgiray/familytree/pkg/logger"
	"github.com/alimgiray/familytree/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, initializes logging and opens the database
func setup() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "load config")
	}

	logger.Init(cfg.Log.Level)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initialize database")
	}

	return cfg, db, nil
}

func serve() error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	gin.SetMode(cfg.Server.Mode)

	photos, err := storage.OpenFileStore(cfg.Media.BucketDir, cfg.Media.BaseURL)
	if err != nil {
		return err
	}
	defer photos.Close()

	// Initialize dependencies
	personRepo := repositories.NewPersonRepository(db)
	relationshipRepo := repositories.NewRelationshipRepository(db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, "familytree"))

	router := handlers.NewRouter(handlers.Dependencies{
		DB:                  db,
		PersonService:       services.NewPersonService(personRepo, relationshipRepo, photos, cfg.Media.MaxPhotoBytes),
		RelationshipService: services.NewRelationshipService(personRepo, relationshipRepo),
		FamilyTreeService:   services.NewFamilyTreeService(personRepo, relationshipRepo),
		ExportService:       services.NewExportService(personRepo, relationshipRepo),
		Photos:              photos,
		Registry:            registry,
	})

	if cfg.Media.SweepMinutes > 0 {
		sweeper := workers.NewPhotoSweepWorker("photo-sweep-1", personRepo, photos,
			time.Duration(cfg.Media.SweepMinutes)*time.Minute, time.Hour)
		workerManager := workers.NewWorkerManager(sweeper)
		workerManager.StartAll()
		defer workerManager.StopAll()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "server failed")
	case <-quit:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown server")
	}

	logger.Info("Server stopped")
	return nil
}
