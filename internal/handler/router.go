/*
Package handler provides the HTTP handlers and routing setup for the Agrow
gateway.

This file defines the main Router, applying logging, CORS and per-IP rate
limiting middleware before delegating to the health, auth and proxy
handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"agrow/internal/pkg/limiter"
	"agrow/internal/pkg/logx"
)

// Chat proxy rate limit: each IP gets a small burst, refilled slowly, since
// every call costs upstream tokens.
const (
	ChatRate  = 0.5
	ChatBurst = 5
)

// Router sets up the routing table for the gateway's four operations.
func Router(deps *AppDeps) http.Handler {
	chatLimiter := limiter.NewIPRateLimiter(rate.Limit(ChatRate), ChatBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{"*"}
	if deps.Config.Environment != "development" && len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", HandleHealth())

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/login", HandleLogin(deps))
		auth.Post("/register", HandleRegister(deps))
	})

	r.Route("/api", func(api chi.Router) {
		rateLimitedChat := chatLimiter.Middleware(HandleChatProxy(deps))
		api.Post("/openai/chat", rateLimitedChat.ServeHTTP)
		api.Get("/weather", HandleWeatherProxy(deps))
	})

	return r
}
