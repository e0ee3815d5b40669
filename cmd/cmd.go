package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Huzaifa084/HalalClassified/internal/auth"
	"github.com/Huzaifa084/HalalClassified/internal/config"
	"github.com/Huzaifa084/HalalClassified/internal/handlers"
	"github.com/Huzaifa084/HalalClassified/internal/middleware"
	"github.com/Huzaifa084/HalalClassified/internal/push"
	"github.com/Huzaifa084/HalalClassified/internal/realtime"
	"github.com/Huzaifa084/HalalClassified/internal/repository"
	"github.com/Huzaifa084/HalalClassified/internal/services"
	"github.com/Huzaifa084/HalalClassified/internal/session"
	"github.com/Huzaifa084/HalalClassified/internal/storage"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Object storage for ad images
	store, err := storage.New(context.Background(),
		cfg.Storage.Region,
		cfg.Storage.Bucket,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Endpoint,
		cfg.Storage.PublicBaseURL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object store")
	}

	// Local session/onboarding store
	sessionStore, err := session.Open(cfg.Session.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer sessionStore.Close()

	// Push notifications are optional
	var notifier services.PushNotifier
	if cfg.Push.KeyFile != "" {
		apns, err := push.New(cfg.Push.KeyFile, cfg.Push.KeyID, cfg.Push.TeamID, cfg.Push.Topic, cfg.Push.Production)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create push notifier")
		}
		notifier = apns
	}

	// Initialize repositories
	adRepo := repository.NewAdRepository(db)
	imageRepo := repository.NewAdImageRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Live message feed
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()
	feed := realtime.NewListener(db)
	go feed.Run(listenerCtx)

	// Initialize services
	adService := services.NewAdService(adRepo, imageRepo, store)
	favoriteService := services.NewFavoriteService(favoriteRepo, adService)
	chatService := services.NewChatService(chatRepo, messageRepo, feed, profileRepo, notifier)
	profileService := services.NewProfileService(profileRepo)

	tokens := auth.NewTokenVerifier(cfg.JWT.Secret)

	// Initialize handlers
	adHandler := handlers.NewAdHandler(adService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	chatHandler := handlers.NewChatHandler(chatService)
	profileHandler := handlers.NewProfileHandler(profileService)
	sessionHandler := handlers.NewSessionHandler(sessionStore)
	wsHandler := handlers.NewWebSocketHandler(chatService, tokens)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/ads", adHandler.Feed)
		r.Get("/ads/{ad_id}", adHandler.Detail)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokens))

			r.Get("/ads/mine", adHandler.MyAds)
			r.Post("/ads", adHandler.Create)
			r.Patch("/ads/{ad_id}", adHandler.Update)
			r.Put("/ads/{ad_id}/active", adHandler.SetActive)
			r.Put("/ads/{ad_id}/images", adHandler.ReplaceImages)
			r.Delete("/ads/{ad_id}", adHandler.Delete)

			r.Get("/favorites", favoriteHandler.List)
			r.Get("/favorites/ids", favoriteHandler.ListIDs)
			r.Post("/favorites/{ad_id}/toggle", favoriteHandler.Toggle)

			r.Post("/chats", chatHandler.GetOrCreate)
			r.Get("/chats", chatHandler.List)
			r.Get("/chats/{chat_id}/messages", chatHandler.Messages)
			r.Post("/chats/{chat_id}/messages", chatHandler.Send)

			r.Get("/profile", profileHandler.Get)
			r.Put("/profile", profileHandler.Upsert)
			r.Put("/profile/push-token", profileHandler.SetPushToken)

			r.Get("/onboarding", sessionHandler.GetOnboarding)
			r.Put("/onboarding", sessionHandler.SetOnboarding)
			r.Get("/accounts", sessionHandler.ListAccounts)
			r.Post("/accounts/sessions", sessionHandler.SaveSession)
			r.Get("/accounts/{user_id}/session", sessionHandler.GetSession)
			r.Delete("/accounts/{user_id}", sessionHandler.RemoveSession)
		})
	})

	// WebSocket route
	r.Get("/ws/chats/{chat_id}", wsHandler.ObserveMessages)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Stop the live feed before the pool closes
	stopListener()
	feed.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
