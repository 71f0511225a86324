package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/byronwade/rebuzzle/internal/db"
	"github.com/byronwade/rebuzzle/internal/services"
)

type Server struct {
	DB            *db.DB
	Puzzles       services.PuzzleService
	Game          services.GameService
	Stats         services.StatsService
	Users         services.UserService
	Notifications services.NotificationService

	CronSecret         string
	RateLimitPerSecond float64
	RateLimitBurst     int
	CORSOrigins        []string
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(s.sessionMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/puzzle/daily", s.handleDailyPuzzle)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimitMiddleware())
			r.Post("/attempts", s.handleSubmitGuess)
		})
		r.Get("/attempts", s.handleAttemptHistory)

		r.Get("/stats", s.handleStats)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Post("/auth/guest", s.handleCreateGuest)
		r.Post("/auth/convert", s.handleConvertGuest)
		r.Post("/auth/clear", s.handleClearData)

		r.Post("/push/subscribe", s.handlePushSubscribe)
		r.Post("/push/unsubscribe", s.handlePushUnsubscribe)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSecret)
			r.Post("/cron/daily", s.handleCronDaily)
			r.Post("/push/send", s.handlePushSend)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(r)
}
