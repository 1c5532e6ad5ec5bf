package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"eventinvites/config"
	_ "eventinvites/docs"
	"eventinvites/internal/adapters/auth"
	"eventinvites/internal/adapters/calendar"
	"eventinvites/internal/adapters/email"
	"eventinvites/internal/adapters/ticket"
	"eventinvites/internal/adapters/whatsapp"
	httpdelivery "eventinvites/internal/delivery/http"
	"eventinvites/internal/delivery/http/controllers"
	"eventinvites/internal/delivery/http/middleware"
	"eventinvites/internal/repository/postgres"
	"eventinvites/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title Event Invites API
// @version 1.0
// @description Backend for creating events, minting guest invites with ticket links and QR codes, collecting RSVPs, and exporting iCalendar files.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	messenger := whatsapp.NewMessenger(whatsapp.MessengerConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioWhatsAppNumber,
	})

	eventRepo := postgres.NewEventRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)

	eventService := services.NewEventService(eventRepo, serviceTimeout)
	inviteService := services.NewInviteService(inviteRepo, eventRepo, ticket.NewMinter(cfg.TicketBaseURL), serviceTimeout)
	notificationService := services.NewNotificationService(mailer, email.NewTemplateRenderer(), messenger, logger)

	exporter := calendar.NewExporter()
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	eventController := controllers.NewEventController(logger, eventService, exporter)
	inviteController := controllers.NewInviteController(logger, inviteService, eventService, notificationService, exporter)

	router := httpdelivery.NewRouter(eventController, inviteController, verifier)

	var handler http.Handler = router
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.RequestID(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting server", "addr", addr, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
