package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/nydart/notification-service/internal/config"
	"github.com/nydart/notification-service/internal/domain/notification"
	appHTTP "github.com/nydart/notification-service/internal/handler/http"
	"github.com/nydart/notification-service/internal/pkg/cron"
	"github.com/nydart/notification-service/internal/pkg/database"
	"github.com/nydart/notification-service/internal/pkg/email"
	"github.com/nydart/notification-service/internal/pkg/jwt"
	"github.com/nydart/notification-service/internal/pkg/metrics"
	"github.com/nydart/notification-service/internal/pkg/sms"
	"github.com/nydart/notification-service/internal/pkg/sse"
	"github.com/nydart/notification-service/internal/repository/dbservice"
	"github.com/nydart/notification-service/internal/repository/postgresql"
	"github.com/nydart/notification-service/internal/service/health"
	"github.com/nydart/notification-service/internal/service/mailer"
	notificationService "github.com/nydart/notification-service/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.App.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo notification.Repository
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		repo = postgresql.NewRepository(db)
	default:
		repo = dbservice.NewRepository(cfg.Store)
	}

	registry := metrics.NewRegistry()

	templates, err := email.NewRenderer()
	if err != nil {
		slog.Error("Failed to load email templates", "error", err)
		os.Exit(1)
	}

	smtpTransport := email.NewSMTPTransport(cfg.SMTP)
	postmarkTransport := email.NewPostmarkTransport(cfg.Postmark)
	emailTransports := []notification.EmailTransport{smtpTransport, postmarkTransport}
	twilioTransport := sms.NewTwilioTransport(cfg.Twilio)

	slog.Info("Email transports initialized",
		"smtp", smtpTransport.IsConfigured(),
		"postmark", postmarkTransport.IsConfigured(),
	)
	slog.Info("SMS transport initialized", "twilio", twilioTransport.IsConfigured())

	hub := sse.NewHub()
	registry.TrackStreamSubscribers(hub.TotalSubscribers)

	notifService := notificationService.NewNotificationService(repo, emailTransports, twilioTransport, templates, registry, hub)
	mailerService := mailer.NewMailerService(emailTransports, templates, mailer.Config{
		FrontendURL: cfg.App.FrontendURL,
		TestEmail:   cfg.App.TestEmail,
	}, registry)

	var jwtService jwt.Service
	if cfg.Auth.ServiceSecret != "" {
		jwtService = jwt.NewJWTService(cfg.Auth.ServiceSecret)
	} else {
		slog.Warn("INTERNAL_JWT_SECRET not set, /api/v1 is unauthenticated")
	}

	scheduler := cron.NewScheduler()
	probe := health.NewProbe(emailTransports, twilioTransport, registry)
	scheduler.AddJob(cron.Job{
		Name:     "provider-verification",
		Interval: cfg.App.ProviderCheckInterval,
		Timeout:  30 * time.Second,
		Fn:       probe.Run,
	})
	if scheduler.Len() > 0 {
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.App.SlogLevel(),
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			JWTService:     jwtService,
			Metrics:        registry.Handler(),
		},
		appHTTP.NewEmailHandler(mailerService, notifService),
		appHTTP.NewSMSHandler(notifService),
		appHTTP.NewNotificationHandler(notifService),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server running", "url", fmt.Sprintf("http://localhost:%d", cfg.App.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
