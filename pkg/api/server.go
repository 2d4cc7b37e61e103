// Package api TileMaze REST API
//
// @title           TileMaze REST API
// @version         1.0.0
// @description     Headless game service for the tile maze puzzle: play sessions, .mze saves and the save archive.
// @host            localhost:9200
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the HTTP routes for server. gatherer backs /metrics.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Game sessions
		r.Post("/games", metrics.InstrumentHandler("POST", "/api/v1/games", server.handleCreateGame))
		r.Post("/games/import", metrics.InstrumentHandler("POST", "/api/v1/games/import", server.handleImportGame))
		r.Get("/games/{id}", metrics.InstrumentHandler("GET", "/api/v1/games/{id}", server.handleGetGame))
		r.Delete("/games/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/games/{id}", server.handleDeleteGame))
		r.Post("/games/{id}/moves", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/moves", server.handleMove))
		r.Post("/games/{id}/rotations", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/rotations", server.handleRotate))
		r.Post("/games/{id}/reset", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/reset", server.handleReset))
		r.Post("/games/{id}/pause", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/pause", server.handlePause))
		r.Post("/games/{id}/resume", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/resume", server.handleResume))
		r.Get("/games/{id}/save", metrics.InstrumentHandler("GET", "/api/v1/games/{id}/save", server.handleSaveGame))
		r.Post("/games/{id}/archive", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/archive", server.handleArchiveGame))
		r.Post("/games/{id}/restore/{archiveID}", metrics.InstrumentHandler("POST", "/api/v1/games/{id}/restore/{archiveID}", server.handleRestoreGame))

		// Save archive
		r.Get("/archive", metrics.InstrumentHandler("GET", "/api/v1/archive", server.handleListArchive))
		r.Get("/archive/{id}", metrics.InstrumentHandler("GET", "/api/v1/archive/{id}", server.handleGetArchived))
		r.Delete("/archive/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/archive/{id}", server.handleDeleteArchived))

		// Diagnostics
		r.Post("/inspect", metrics.InstrumentHandler("POST", "/api/v1/inspect", server.handleInspect))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", server.handleSwagger)

	return r
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("failed to generate swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>TileMaze API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// StartServer starts the HTTP server with all routes configured and
// shuts it down when ctx is cancelled
func StartServer(ctx context.Context, deps Dependencies, config ServerConfig) error {
	if deps.Definitions == nil || deps.Archive == nil {
		return errors.New("server needs a definition source and an archive")
	}

	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(registry)

	server := NewServer(deps, config, metrics)
	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("starting TileMaze REST API server", "addr", addr)
		server.logger.Info("metrics available", "url", fmt.Sprintf("http://localhost:%d/metrics", config.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		server.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
