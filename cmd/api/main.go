package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/config"
	"github.com/listify/listify-api/internal/domain/auth"
	"github.com/listify/listify-api/internal/domain/billing"
	"github.com/listify/listify-api/internal/domain/credit"
	"github.com/listify/listify-api/internal/domain/generation"
	"github.com/listify/listify-api/internal/domain/listing"
	"github.com/listify/listify-api/internal/domain/market"
	uploadDomain "github.com/listify/listify-api/internal/domain/upload"
	"github.com/listify/listify-api/internal/domain/user"
	"github.com/listify/listify-api/internal/middleware"
	"github.com/listify/listify-api/internal/pkg/apify"
	"github.com/listify/listify-api/internal/pkg/database"
	"github.com/listify/listify-api/internal/pkg/email"
	"github.com/listify/listify-api/internal/pkg/imaging"
	"github.com/listify/listify-api/internal/pkg/jwt"
	"github.com/listify/listify-api/internal/pkg/logger"
	"github.com/listify/listify-api/internal/pkg/openai"
	pkgresponse "github.com/listify/listify-api/internal/pkg/response"
	"github.com/listify/listify-api/internal/pkg/storage"
	"github.com/listify/listify-api/internal/pkg/stripe"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Listify API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- External clients ----------
	openaiClient := openai.NewClient(openai.Config{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
	})
	apifyClient := apify.NewClient(apify.Config{
		Token:   cfg.ApifyAPIKey,
		ActorID: cfg.ApifyActorID,
	})
	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey: cfg.StripeSecretKey,
	})
	mailer := email.NewResendClient(email.Config{
		APIKey: cfg.ResendAPIKey,
		From:   cfg.EmailFrom,
	})

	store, err := storage.NewR2Storage(storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		BucketName:      cfg.R2BucketName,
		PublicURL:       cfg.R2PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create R2 storage")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	generationRepo := generation.NewRepository(db)
	transactionRepo := billing.NewRepository(db)

	// ---------- Services ----------
	creditService := credit.NewService(creditRepo)
	authService := auth.NewService(userRepo, jwtService, creditService)
	marketService := market.NewService(apifyClient, redisClient, cfg.MarketCacheTTL)
	generator := listing.NewGenerator(openaiClient, cfg.OpenAIModel)
	generationService := generation.NewService(creditService, marketService, generator, generationRepo)
	billingService := billing.NewService(transactionRepo, creditService, userRepo, mailer, stripeClient, cfg.StripeWebhookSecret, cfg.AppURL)
	uploadService := uploadDomain.NewService(store, imaging.NewProcessor(imaging.DefaultConfig()))

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	creditHandler := credit.NewHandler(creditService)
	generationHandler := generation.NewHandler(generationService)
	billingHandler := billing.NewHandler(billingService)
	uploadHandler := uploadDomain.NewHandler(uploadService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/credits", creditHandler.Routes(authMiddleware))
		r.Mount("/uploads", uploadHandler.Routes(authMiddleware))
		r.Mount("/billing", billingHandler.Routes(authMiddleware))
		r.Mount("/", generationHandler.Routes(authMiddleware))
	})

	r.Mount("/webhooks", billingHandler.WebhookRoutes())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
