package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shanky3008/dietint-platform-sub001/internal/api/handler"
	"github.com/Shanky3008/dietint-platform-sub001/internal/booking"
	"github.com/Shanky3008/dietint-platform-sub001/internal/config"
	"github.com/Shanky3008/dietint-platform-sub001/internal/relay"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogging(cfg.LogLevel)

	isProduction := os.Getenv("GIN_MODE") == "release"
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	bookings, err := booking.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open booking database")
	}

	hub := relay.NewHub(relay.HubConfig{
		Bookings:      bookings,
		LogCap:        cfg.RelayLogCap,
		SendRateLimit: cfg.SendRateLimit,
		RateWindow:    cfg.SendRateWindow(),
	})
	go hub.Run()

	r := gin.Default()
	h := handler.NewHandler(hub, bookings, cfg.JWTSecret)

	r.GET("/healthz", h.Health)
	r.GET("/api/token", h.GetToken)
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	{
		api.POST("/consultations", h.CreateConsultation)
		api.GET("/consultations", h.ListConsultations)
		api.GET("/consultations/:id", h.GetConsultation)
	}

	// No ReadTimeout on the server itself: /ws connections are long-lived and
	// paced by the relay's own ping/pong deadlines.
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	log.Info().Str("addr", cfg.Addr()).Msg("dietint consultation relay listening")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
