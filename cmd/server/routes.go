package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/FTI-LMS/LMS/internal/auth"
	"github.com/FTI-LMS/LMS/internal/config"
	"github.com/FTI-LMS/LMS/internal/handler"
	"github.com/FTI-LMS/LMS/internal/middleware"

	"github.com/rs/cors"
)

// newRouter registers every route and wraps the mux in the middleware chain.
// Routes that reach the drive or the enrichment service require an access token.
func newRouter(
	cfg *config.Config,
	graphHandler *handler.GraphHandler,
	catalogHandler *handler.CatalogHandler,
	verifier auth.TokenVerifier,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()
	withToken := middleware.AccessToken(verifier, logger)

	mux.HandleFunc("GET /health", handler.Health)

	// Drive proxy
	mux.Handle("POST /api/graph/validate-token", withToken(http.HandlerFunc(graphHandler.ValidateToken)))
	mux.Handle("POST /api/graph/user-info", withToken(http.HandlerFunc(graphHandler.UserInfo)))
	mux.Handle("POST /api/graph/files", withToken(http.HandlerFunc(graphHandler.ListFiles)))
	mux.Handle("POST /api/graph/files/recent", withToken(http.HandlerFunc(graphHandler.ListRecentFiles)))
	mux.Handle("POST /api/graph/drives/{driveId}/items/{itemId}/children", withToken(http.HandlerFunc(graphHandler.ListChildren)))

	// Catalog
	mux.Handle("POST /api/graph/drives/{driveId}/items/{itemId}/catalog", withToken(http.HandlerFunc(graphHandler.BuildCatalog)))
	mux.Handle("POST /api/catalog/rebuild", withToken(http.HandlerFunc(catalogHandler.Rebuild)))
	mux.HandleFunc("GET /api/catalog/trainings", catalogHandler.ListTrainings)
	mux.HandleFunc("GET /api/catalog/trainings/{id}/details", catalogHandler.ListTrainingDetails)
	mux.HandleFunc("GET /api/catalog/categories", catalogHandler.ListCategories)
	mux.HandleFunc("GET /api/catalog/export", catalogHandler.Export)

	// Order: CORS → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)

	// CORS - must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	})
	return corsHandler.Handler(h)
}
