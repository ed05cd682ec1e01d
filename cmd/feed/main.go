package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/preseasonhq/backoffice/internal/config"
	"github.com/preseasonhq/backoffice/internal/posfeed"
	"github.com/preseasonhq/backoffice/internal/repository/postgres"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Initialize the Drive client for the point-of-sale export folder
	feedService, err := posfeed.NewService(cfg.Feed.CredentialsJSON)
	if err != nil {
		log.Fatalf("Failed to initialize feed service: %v", err)
	}

	// Initialize Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Repositories
	salesRepo := postgres.NewSalesRepository(db)
	catalogRepo := postgres.NewCatalogRepository(db)

	// Initialize Services
	ingestService := posfeed.NewIngestService(feedService, salesRepo, catalogRepo)

	// Create router and register routes
	r := mux.NewRouter()
	feedHandler := posfeed.NewHandler(feedService, ingestService, cfg.Feed.DownloadDir)
	feedHandler.RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Feed server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
