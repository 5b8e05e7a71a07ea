// Package api assembles the HTTP router: middleware chain, public endpoints
// and the gate-protected resource routes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/portcullis-auth/portcullis/internal/api/handler"
	"github.com/portcullis-auth/portcullis/internal/api/middleware"
	"github.com/portcullis-auth/portcullis/internal/api/response"
	"github.com/portcullis-auth/portcullis/internal/auth"
)

// Handlers groups the endpoint handlers the router wires up.
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Application *handler.ApplicationHandler
	OAuth       *handler.OAuthHandler
	Health      *handler.HealthHandler
}

// NewRouter builds the router. The rate limiter guards only the
// unauthenticated endpoints; everything under /v1/users and /v1/applications
// sits behind the authentication gate.
func NewRouter(h Handlers, authService *auth.Service, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.FailEmpty(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.FailEmpty(w, http.StatusNotFound)
	})

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Limit)

		r.Post("/oauth/access_token", h.OAuth.AccessToken)
		r.Post("/v1/auth/sign-up", h.Auth.SignUp)
		r.Post("/v1/auth/sign-in", h.Auth.SignIn)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))

		r.Route("/v1/users", func(r chi.Router) {
			r.Post("/", h.User.Create)
			r.Get("/", h.User.List)
			r.Get("/{userID}", h.User.Get)
			r.Put("/{userID}", h.User.Update)
			r.Put("/{userID}/password", h.User.UpdatePassword)
			r.Put("/{userID}/role", h.User.UpdateRole)
			r.Put("/{userID}/status", h.User.UpdateStatus)
			r.Delete("/{userID}", h.User.Delete)
		})

		r.Route("/v1/applications", func(r chi.Router) {
			r.Post("/", h.Application.Create)
			r.Get("/", h.Application.List)
			r.Get("/{applicationID}", h.Application.Get)
			r.Put("/{applicationID}", h.Application.Update)
			r.Put("/{applicationID}/credentials", h.Application.RotateCredentials)
			r.Put("/{applicationID}/status", h.Application.UpdateStatus)
			r.Delete("/{applicationID}", h.Application.Delete)
		})
	})

	return r
}
