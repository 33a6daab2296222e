// cmd/bot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/w1nReach/w1nReachBotik/internal/bot"
	channelrepository "github.com/w1nReach/w1nReachBotik/internal/channel/repository"
	channelservice "github.com/w1nReach/w1nReachBotik/internal/channel/service"
	"github.com/w1nReach/w1nReachBotik/internal/config"
	"github.com/w1nReach/w1nReachBotik/internal/metrics"
	subscriptionrepository "github.com/w1nReach/w1nReachBotik/internal/subscription/repository"
	subscriptionservice "github.com/w1nReach/w1nReachBotik/internal/subscription/service"
	userrepository "github.com/w1nReach/w1nReachBotik/internal/user/repository"
	userservice "github.com/w1nReach/w1nReachBotik/internal/user/service"
	"github.com/w1nReach/w1nReachBotik/pkg/db"
	"github.com/w1nReach/w1nReachBotik/pkg/middleware"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	log.Info().Msg("config loaded")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("connected to PostgreSQL")

	metrics.InitMetrics()

	// --- ИНИЦИАЛИЗАЦИЯ СЛОЁВ ---
	userRepo := userrepository.NewPostgresUserRepository(database)
	userService := userservice.NewUserService(userRepo, cfg.AdminID, cfg.AdminUsername)

	grantRepo := subscriptionrepository.NewGrantRepository(database)
	subService := subscriptionservice.NewService(grantRepo)

	channelRepo := channelrepository.NewChannelRepository(database)
	channelService := channelservice.NewService(channelRepo)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram auth failed")
	}
	log.Info().Str("username", api.Self.UserName).Msg("telegram authorized")

	tgBot := bot.New(api, log, cfg, userService, subService, channelService)

	// --- СЛУЖЕБНЫЙ HTTP ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.MetricsMiddleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.OpsAddr,
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ops server failed")
		}
	}()
	log.Info().Str("addr", cfg.OpsAddr).Msg("ops server running")

	botDone := make(chan error, 1)
	go func() {
		botDone <- tgBot.Run(ctx)
	}()

	// Graceful shutdown на сигналы ОС
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sig:
		log.Info().Msg("shutdown signal received")
	case err := <-botDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("bot stopped with error")
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown failed")
	}
	log.Info().Msg("stopped")
}
