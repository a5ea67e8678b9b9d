package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/wdg-platform/filestore/internal/api"
	"github.com/wdg-platform/filestore/internal/api/handlers"
	"github.com/wdg-platform/filestore/internal/config"
	"github.com/wdg-platform/filestore/internal/repositories"
	"github.com/wdg-platform/filestore/internal/services"
	"github.com/wdg-platform/filestore/internal/storage"
)

// @title File Storage Service API
// @version 1.0
// @description Presigned upload/download/delete URLs and file metadata tracking for an S3-compatible object store.
// @BasePath /
func main() {
	cfg := config.Envs

	db := repositories.ConnectDatabase()
	store := storage.NewS3Client(cfg.S3)
	repo := repositories.NewFileRepository(db)

	opts := services.Options{
		Bucket:        cfg.S3.BucketName,
		DefaultExpiry: cfg.PresignExpiry,
		DefaultTenant: cfg.DefaultTenant,
		DefaultModule: cfg.DefaultModule,
	}
	uploads := services.NewUploadService(store, repo, opts)
	deletes := services.NewDeleteService(store, repo, opts)

	mux := api.SetupRouter(handlers.NewFileHandler(uploads, deletes))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting file storage service on port: %s", cfg.Port)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on port %s: %v", cfg.Port, err)
	}
}
