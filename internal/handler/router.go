package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/musicbesties/api/internal/identity"
	"github.com/musicbesties/api/internal/middleware"
	natsclient "github.com/musicbesties/api/internal/nats"
	"github.com/musicbesties/api/internal/service"
	"github.com/musicbesties/api/internal/store"
	"github.com/musicbesties/api/pkg/logger"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Chat     *service.ChatService
	Music    *service.MusicService
	Auth     *service.AuthService
	Store    store.Store
	Verifier identity.Verifier
	// NATS is optional.
	NATS *natsclient.Client

	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	Logger            *logger.Logger
}

// NewRouter wires HTTP routes to the services.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	healthHandler := NewHealthHandler(cfg.Store, cfg.NATS)
	chatHandler := NewChatHandler(cfg.Chat, log)
	musicHandler := NewMusicHandler(cfg.Music, log)
	authHandler := NewAuthHandler(cfg.Auth, log)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Anonymous routes are limited per client IP, authenticated ones per user.
	ipLimit := passThrough
	userLimit := passThrough
	if cfg.RateLimitRequests > 0 {
		ipLimit = middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)
		userLimit = middleware.UserRateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/chat", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.Verifier))
			r.Use(userLimit)
			r.Post("/", chatHandler.Send)
			r.Post("/init", chatHandler.Init)
		})

		r.Route("/music", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Verifier))
			r.Use(userLimit)
			r.Post("/search", musicHandler.Search)
			r.Get("/artists/{artistID}/albums", musicHandler.Albums)
			r.Get("/albums/{albumID}/tracks", musicHandler.Tracks)
			r.Post("/set-primary-artist", musicHandler.SetPrimaryArtist)
			r.Post("/curate", musicHandler.Curate)
			r.Get("/curations", musicHandler.Curations)
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(ipLimit).Post("/signup", authHandler.SignUp)
			r.With(ipLimit).Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.Verifier))
				r.Use(userLimit)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})
	})

	return r
}

func passThrough(next http.Handler) http.Handler {
	return next
}
