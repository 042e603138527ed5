package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	AllowedOrigins []string
	Limiter        *RateLimiter
	RequestTimeout time.Duration
}

// NewRouter wires every route. Write routes sit behind AdminAuthMiddleware.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.ListGames)
			r.Get("/{id}", h.GetGame)
			r.Get("/{id}/leaderboard", h.GetGameLeaderboard)
			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthMiddleware)
				r.Post("/", h.CreateGame)
				r.Put("/{id}", h.UpdateGame)
				r.Delete("/{id}", h.DeactivateGame)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.ListPlayers)
			r.Get("/{id}", h.GetPlayer)
			r.Get("/{id}/stats", h.GetPlayerStats)
			r.Get("/{id}/badges", h.GetPlayerBadges)
			r.Get("/{id}/profile", h.GetPlayerProfile)
			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthMiddleware)
				r.Post("/", h.CreatePlayer)
				r.Put("/{id}", h.UpdatePlayer)
				r.Post("/{id}/archive", h.ArchivePlayer)
				r.Post("/{id}/restore", h.RestorePlayer)
				r.Delete("/{id}", h.DeletePlayer)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", h.ListSessions)
			r.Post("/preview", h.PreviewScores)
			r.Get("/{id}", h.GetSession)
			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthMiddleware)
				r.Post("/", h.RecordSession)
				r.Put("/{id}", h.UpdateSession)
				r.Delete("/{id}", h.DeleteSession)
			})
		})

		r.Post("/rankings/validate", h.ValidateRankings)
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/badges", h.ListBadges)

		r.Route("/game-nights", func(r chi.Router) {
			r.Get("/", h.ListGameNights)
			r.Get("/{id}", h.GetGameNight)
			r.Post("/{id}/rsvp", h.RSVPGameNight)
			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthMiddleware)
				r.Post("/", h.ScheduleGameNight)
				r.Put("/{id}", h.UpdateGameNight)
				r.Delete("/{id}", h.CancelGameNight)
			})
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", h.SubmitFeedback)
			r.Group(func(r chi.Router) {
				r.Use(h.AdminAuthMiddleware)
				r.Get("/", h.ListFeedback)
				r.Post("/{id}/resolve", h.ResolveFeedback)
			})
		})

		r.Get("/activity/daily", h.GetDailyActivity)
		r.Get("/activity/games", h.GetGamePopularity)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.AdminAuthMiddleware)
			r.Post("/recalculate", h.RecalculateAllStats)
			r.Post("/install", h.InstallDatabase)
		})
	})

	return r
}
