package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/game"
	"github.com/keeper-realm/api/internal/handlers"
	"github.com/keeper-realm/api/internal/middleware"
	redisClient "github.com/keeper-realm/api/internal/redis"
)

func main() {
	// Load .env if present, then configuration from environment
	if err := godotenv.Load(); err != nil {
		log.Println("[API] No .env file found, using environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize database connection
	log.Println("[API] Initializing database connection...")
	db, err := database.NewConnection(database.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("[API] Failed to initialize schema: %v", err)
	}
	if err := db.SeedReferenceData(); err != nil {
		log.Fatalf("[API] Failed to seed reference data: %v", err)
	}

	// Initialize Redis connection
	rdb, err := redisClient.NewClient(redisClient.LoadConfigFromEnv())
	if err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Game services
	summonService := game.NewSummonService(db)
	bossService := game.NewBossService(db)
	integrityService := game.NewIntegrityService(db)

	// Startup integrity pass: bind orphaned keepers to their owners
	if err := integrityService.ReconcileKeeperOwners(context.Background()); err != nil {
		log.Printf("[API] Ownership reconciliation failed: %v", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, rdb)
	playerHandler := handlers.NewPlayerHandler(db)
	summonHandler := handlers.NewSummonHandler(summonService, rdb)
	keeperHandler := handlers.NewKeeperHandler(db)
	bossHandler := handlers.NewBossHandler(db, bossService)
	adminHandler := handlers.NewAdminHandler(db, integrityService, rdb)
	leaderboardHandler := handlers.NewLeaderboardHandler(db, rdb)

	// Setup HTTP routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Auth routes
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/admin/login", authHandler.AdminLogin)
	mux.HandleFunc("POST /api/logout", middleware.RequireAuth(authHandler.Logout))

	// Player routes
	mux.HandleFunc("GET /api/player/{id}", middleware.RequireAuth(playerHandler.GetPlayer))
	mux.HandleFunc("POST /api/player/{id}", middleware.RequireAuth(playerHandler.UpdatePlayer))

	// Summon routes
	mux.HandleFunc("POST /api/summon/{playerId}", middleware.RequireAuth(summonHandler.Summon))
	mux.HandleFunc("GET /api/summon-history/{playerId}", middleware.RequireAuth(keeperHandler.GetSummonHistory))

	// Keeper routes
	mux.HandleFunc("GET /api/keeper/{id}", middleware.RequireAuth(keeperHandler.GetKeeper))
	mux.HandleFunc("GET /api/keeper-class/{id}", keeperHandler.GetKeeperClass)

	// Boss routes
	mux.HandleFunc("GET /api/bosses", bossHandler.ListBosses)
	mux.HandleFunc("POST /api/boss/{id}/edit", middleware.RequireAuth(bossHandler.EditBoss))
	mux.HandleFunc("POST /api/boss-defeat/{id}", middleware.RequireAuth(bossHandler.DefeatBoss))

	// Leaderboard routes
	mux.HandleFunc("GET /api/leaderboard", leaderboardHandler.GetLeaderboard)

	// Admin routes
	mux.HandleFunc("GET /api/admin/users", middleware.RequireAuth(adminHandler.ListPlayers))
	mux.HandleFunc("GET /api/admin/keepers", middleware.RequireAuth(adminHandler.ListKeepers))
	mux.HandleFunc("POST /api/admin/keeper/{id}/toggle-ban", middleware.RequireAuth(adminHandler.ToggleKeeperBan))
	mux.HandleFunc("POST /api/admin/keeper/{id}/edit", middleware.RequireAuth(adminHandler.EditKeeper))
	mux.HandleFunc("POST /api/admin/user/{id}/edit", middleware.RequireAuth(adminHandler.EditPlayer))
	mux.HandleFunc("GET /api/admin/stats", middleware.RequireAuth(adminHandler.Stats))

	// CORS middleware
	handler := corsMiddleware(mux)

	// Start server
	log.Printf("[API] Starting server on port %s...", port)
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("[API] Server failed: %v", err)
	}
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
