package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nydart/notification-service/internal/handler/http/middleware"
	"github.com/nydart/notification-service/internal/pkg/jwt"
)

// RouterOptions carries the cross-cutting pieces of the router.
type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// JWTService guards /api/v1 when set.
	JWTService jwt.Service
	Metrics    http.Handler
}

func NewRouter(opts RouterOptions, emailHandler EmailHandler, smsHandler SMSHandler, notificationHandler NotificationHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Notification Service is running"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Get("/health", emailHandler.Health)
	r.Get("/test-email-service", emailHandler.TestEmailService)
	r.Post("/test-email", emailHandler.SendTestEmail)
	r.Post("/password-reset", emailHandler.PasswordReset)
	r.Post("/welcome", emailHandler.Welcome)
	r.Post("/security-alert", emailHandler.SecurityAlert)

	r.Get("/test-sms-service", smsHandler.TestSMSService)
	r.Post("/test-sms", smsHandler.SendTestSMS)

	r.Route("/api/v1", func(r chi.Router) {
		if opts.JWTService != nil {
			r.Use(jwtauth.Verifier(opts.JWTService.JWTAuth()))
			r.Use(middleware.ServiceAuthRequired)
		}

		r.Route("/notifications", func(r chi.Router) {
			r.Post("/", notificationHandler.Send)
			r.Post("/analysis-complete", notificationHandler.AnalysisComplete)
			r.Post("/analysis-failed", notificationHandler.AnalysisFailed)
			r.Post("/security-alert", notificationHandler.SecurityAlert)
			r.Post("/welcome", notificationHandler.Welcome)
			r.Post("/artwork-added", notificationHandler.ArtworkAdded)
		})

		r.Get("/users/{userID}/preferences", notificationHandler.GetPreferences)
		r.Get("/users/{userID}/notifications/stream", notificationHandler.Stream)
	})

	return r
}
