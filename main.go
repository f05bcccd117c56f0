package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"dealscout/config"
	"dealscout/database"
	"dealscout/handlers"
	"dealscout/middleware"
	"dealscout/models"
	"dealscout/repository"
	"dealscout/scheduler"
	"dealscout/scraper"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

var startTime = time.Now()

// Metrics struct for basic monitoring
type Metrics struct {
	Timestamp     time.Time `json:"timestamp"`
	Uptime        string    `json:"uptime"`
	Goroutines    int       `json:"goroutines"`
	MemoryUsage   string    `json:"memory_usage"`
	TotalSearches int       `json:"total_searches"`
	LastQuery     string    `json:"last_query,omitempty"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	// Persistence is optional: without DATABASE_URL the service still
	// scrapes, it just keeps no history.
	persistenceEnabled := cfg.DatabaseURL != ""
	if persistenceEnabled {
		if err := database.InitDatabase(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.CloseDatabase()

		if err := database.CreateTables(); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
	} else {
		log.Println("DATABASE_URL not set, running without search history")
	}

	searchRepo := repository.NewSearchRepository()
	engine := scraper.NewEngine(cfg)
	h := handlers.NewHandlers(engine, searchRepo)

	if persistenceEnabled {
		cleaner := scheduler.NewRetentionCleaner(searchRepo, cfg.RetentionDays)
		cleaner.Start()
		defer cleaner.Stop()
	}

	r := mux.NewRouter()

	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerSec))
	r.Use(middleware.RequestSizeLimitMiddleware(cfg.RequestSizeLimit))
	r.Use(middleware.APIKeyMiddleware(cfg.RequireAPIKey))

	// Health and monitoring endpoints
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/metrics", getMetrics(engine)).Methods("GET")
	r.HandleFunc("/status", h.EngineStatus).Methods("GET")

	// API v1 routes
	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/deals", h.GetDeals).Methods("GET")
	apiV1.HandleFunc("/deals/ranked", h.GetRankedDeals).Methods("GET")
	apiV1.HandleFunc("/classify", h.Classify).Methods("GET")
	apiV1.HandleFunc("/sources", h.GetSources).Methods("GET")
	apiV1.HandleFunc("/searches", h.GetSearches).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.Printf("Server starting on %s:%s", cfg.Host, cfg.Port)
	log.Printf("   GET  /health - Health check")
	log.Printf("   GET  /metrics - System metrics")
	log.Printf("   GET  /status - Engine status")
	log.Printf("   GET  /api/v1/deals?q=... - Fetch best deals across sources")
	log.Printf("   GET  /api/v1/deals/ranked?q=... - Quality-ranked deals")
	log.Printf("   GET  /api/v1/classify?q=... - Preview query category")
	log.Printf("   GET  /api/v1/sources - Source and routing info")
	log.Printf("   GET  /api/v1/searches - Search history")

	log.Fatal(http.ListenAndServe(cfg.Host+":"+cfg.Port, c.Handler(r)))
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"service":     "dealscout",
		"status":      "healthy",
		"timestamp":   time.Now(),
		"version":     "1.0.0",
		"api_version": "v1",
		"sources":     models.AllSources(),
		"endpoints": map[string]string{
			"health":   "/health",
			"metrics":  "/metrics",
			"status":   "/status",
			"deals":    "/api/v1/deals",
			"ranked":   "/api/v1/deals/ranked",
			"classify": "/api/v1/classify",
			"sources":  "/api/v1/sources",
			"searches": "/api/v1/searches",
		},
	}
	writeJSON(w, http.StatusOK, response)
}

func getMetrics(engine *scraper.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		st := engine.Status()
		metricsData := Metrics{
			Timestamp:     time.Now(),
			Uptime:        time.Since(startTime).String(),
			Goroutines:    runtime.NumGoroutine(),
			MemoryUsage:   fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			TotalSearches: st.TotalSearches,
			LastQuery:     st.LastQuery,
		}

		writeJSON(w, http.StatusOK, metricsData)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
