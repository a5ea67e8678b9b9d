package api

import (
	"fmt"
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/wdg-platform/filestore/docs"

	"github.com/rs/cors"
	"github.com/wdg-platform/filestore/internal/api/handlers"
	"github.com/wdg-platform/filestore/internal/api/middleware"
	"github.com/wdg-platform/filestore/internal/config"
)

func SetupRouter(files *handlers.FileHandler) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()

	fileMux := http.NewServeMux()
	fileMux.HandleFunc("POST /presign-upload", files.PresignUpload)
	fileMux.HandleFunc("POST /finalize", files.FinalizeUpload)
	fileMux.HandleFunc("POST /download-url", files.DownloadURL)
	fileMux.HandleFunc("POST /delete-url", files.DeleteURL)
	fileMux.HandleFunc("GET /by-ref", files.ListByReference)

	protectedMux.Handle("/files/",
		http.StripPrefix("/files", fileMux),
	)
	protectedMux.HandleFunc("DELETE /files", files.DeleteFile)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
