// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/erdgen/internal/auth"
	"github.com/tomtom215/erdgen/internal/middleware"
)

// Router owns the HTTP route table.
type Router struct {
	handler       *Handler
	sessions      *auth.SessionMiddleware
	chiMiddleware *ChiMiddleware
	staticDir     string
}

// NewRouter creates a router. An empty staticDir disables front-end serving.
func NewRouter(handler *Handler, sessions *auth.SessionMiddleware, mw *ChiMiddleware, staticDir string) *Router {
	return &Router{
		handler:       handler,
		sessions:      sessions,
		chiMiddleware: mw,
		staticDir:     staticDir,
	}
}

// SetupChi configures all HTTP routes.
//
// The front-end talks to /login, /get_objects and /generate_erd at the root,
// so those paths stay unversioned. Service endpoints live under /api/v1.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Health and metrics
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Application endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
		r.With(router.sessions.Authenticate).Post("/logout", router.handler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(router.sessions.RequireSession)
			r.Get("/get_objects", router.handler.GetObjects)
			r.Post("/generate_erd", router.handler.GenerateERD)
			r.Get("/api/v1/session", router.handler.Session)
		})
	})

	// ========================
	// Front-end
	// ========================
	if router.staticDir != "" {
		r.Handle("/*", SPAHandler(router.staticDir))
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).NotFound("Not found")
		})
	}

	return r
}
