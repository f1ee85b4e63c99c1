package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prahari-ai/honeypot-platform/internal/conversation"
	httpmiddleware "github.com/prahari-ai/honeypot-platform/internal/http/middleware"
	"github.com/prahari-ai/honeypot-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	MetricsHandler      http.Handler

	// APIKey authenticates the ingestion endpoints.
	APIKey string
	// AdminAuthSecret enables the JWT-protected admin review surface.
	AdminAuthSecret string

	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.ConversationHandler.HealthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Ingestion API: scam message intake and conversation review.
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(httpmiddleware.APIKey(cfg.APIKey))
		if cfg.RateLimitPerSecond > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		api.Post("/message", cfg.ConversationHandler.HandleMessage)
		api.Get("/conversation/{conversationID}", cfg.ConversationHandler.GetConversation)
		api.Get("/conversations", cfg.ConversationHandler.ListConversations)
	})

	// Admin review surface, JWT-protected.
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/conversations", cfg.ConversationHandler.ListConversations)
			admin.Get("/conversations/{conversationID}", cfg.ConversationHandler.GetConversation)
		})
	}

	return r
}
