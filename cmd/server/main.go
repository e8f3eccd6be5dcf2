package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaign-app/internal/auth"
	"campaign-app/internal/chat"
	"campaign-app/internal/config"
	"campaign-app/internal/database"
	"campaign-app/internal/handlers"
	"campaign-app/internal/services"
	"campaign-app/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize services
	authService := auth.NewService(db, cfg)
	campaignService := services.NewCampaignService(db)
	characterService := services.NewCharacterService(db)
	messageService := services.NewMessageService(db)
	compendiumService := services.NewCompendiumService(db)

	// Chat room registry and broadcast hub, shared by all sessions
	registry := chat.NewRegistry()
	hub := chat.NewHub(registry)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	campaignHandlers := handlers.NewCampaignHandlers(campaignService)
	characterHandlers := handlers.NewCharacterHandlers(characterService)
	messageHandlers := handlers.NewMessageHandlers(messageService)
	diceHandlers := handlers.NewDiceHandlers()
	compendiumHandlers := handlers.NewCompendiumHandlers(compendiumService)
	wsHandlers := handlers.NewWebSocketHandlers(authService, db, registry, hub)

	// Setup routes
	mux := http.NewServeMux()
	requireAuth := handlers.RequireAuth(authService)
	protected := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, requireAuth(fn))
	}

	// Auth routes
	mux.HandleFunc("POST /auth/register", authHandlers.Register)
	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	protected("GET /users/me", authHandlers.Me)

	// Campaign routes
	protected("POST /campaigns", campaignHandlers.CreateCampaign)
	protected("GET /campaigns", campaignHandlers.ListCampaigns)
	protected("GET /campaigns/{id}", campaignHandlers.GetCampaign)
	protected("PATCH /campaigns/{id}", campaignHandlers.UpdateCampaign)
	protected("DELETE /campaigns/{id}", campaignHandlers.DeleteCampaign)
	protected("POST /campaigns/{id}/members", campaignHandlers.AddMember)
	protected("PATCH /campaigns/{id}/members/{userID}", campaignHandlers.UpdateMemberRole)
	protected("DELETE /campaigns/{id}/members/{userID}", campaignHandlers.RemoveMember)

	// Message routes
	protected("POST /campaigns/{id}/messages", messageHandlers.CreateMessage)
	protected("GET /campaigns/{id}/messages", messageHandlers.ListMessages)
	protected("PATCH /messages/{id}", messageHandlers.UpdateMessage)
	protected("DELETE /messages/{id}", messageHandlers.DeleteMessage)

	// Character routes
	protected("POST /characters", characterHandlers.CreateCharacter)
	protected("GET /characters", characterHandlers.ListCharacters)
	protected("GET /characters/{id}", characterHandlers.GetCharacter)
	protected("PATCH /characters/{id}", characterHandlers.UpdateCharacter)
	protected("DELETE /characters/{id}", characterHandlers.DeleteCharacter)

	// Dice routes
	mux.HandleFunc("POST /dice/roll", diceHandlers.Roll)
	mux.HandleFunc("POST /dice/roll/multiple", diceHandlers.RollMultiple)

	// Compendium routes (reads are public, writes require auth)
	mux.HandleFunc("GET /compendium/items", compendiumHandlers.ListItems)
	mux.HandleFunc("GET /compendium/items/{id}", compendiumHandlers.GetItem)
	mux.HandleFunc("GET /compendium/items/{id}/children", compendiumHandlers.GetChildren)
	protected("POST /compendium/items", compendiumHandlers.CreateItem)
	protected("PATCH /compendium/items/{id}", compendiumHandlers.UpdateItem)
	protected("DELETE /compendium/items/{id}", compendiumHandlers.DeleteItem)

	// Campaign chat WebSocket route (token in query, checked by the handler)
	mux.HandleFunc("GET /campaigns/{id}/ws", wsHandlers.HandleCampaignChat)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 Campaign chat endpoint: ws://localhost%s/campaigns/{id}/ws", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
