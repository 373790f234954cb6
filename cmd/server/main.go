package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardfolio/cardfolio-backend/internal/adapter/httpapi"
	"github.com/cardfolio/cardfolio-backend/internal/adapter/notify"
	"github.com/cardfolio/cardfolio-backend/internal/adapter/pricing"
	"github.com/cardfolio/cardfolio-backend/internal/adapter/repository/postgres"
	"github.com/cardfolio/cardfolio-backend/internal/config"
	holdingusecase "github.com/cardfolio/cardfolio-backend/internal/usecase/holding"
	"github.com/cardfolio/cardfolio-backend/internal/usecase/pricewatch"
	spotusecase "github.com/cardfolio/cardfolio-backend/internal/usecase/spot"
)

const (
	defaultAPIToken = "dev-token"
	httpAddr        = ":8080"
)

func main() {
	// 1. Load configuration (fee table, currency, price source)
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	fees, err := cfg.FeeTable()
	if err != nil {
		log.Fatalf("Invalid fee table: %v", err)
	}

	// 2. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost" // Default for local run without docker
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "cardfolio"
		}

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	// Add 2-second delay to ensure Postgres is up (Simple retry)
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Initialize Repositories (Postgres)
	holdingRepo := postgres.NewHoldingRepository(db)
	spotRepo := postgres.NewSpotRepository(db)

	// 4. Initialize Services (Use Cases)
	holdingService := holdingusecase.NewService(holdingRepo, fees, notify.NewLogSink())
	spotService := spotusecase.NewService(spotRepo, holdingRepo)

	var pricewatchService *pricewatch.Service
	if cfg.PriceSourceURL != "" {
		priceSource := pricing.NewClient(cfg.PriceSourceURL)
		pricewatchService = pricewatch.NewService(holdingRepo, priceSource, holdingService)
		log.Printf("Price source enabled: %s", cfg.PriceSourceURL)
	} else {
		log.Println("No price source configured, market refresh disabled")
	}

	// 5. Start HTTP Server
	// Get API token from environment or use default
	apiToken := os.Getenv("API_TOKEN")
	if apiToken == "" {
		apiToken = defaultAPIToken
	}

	api := httpapi.NewServer(holdingService, spotService, pricewatchService, cfg.Currency)
	httpServer := &http.Server{
		Addr:    httpAddr,
		Handler: httpapi.AuthMiddleware(apiToken, api),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("HTTP server listening on %s", httpAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("HTTP server stopped")
}
