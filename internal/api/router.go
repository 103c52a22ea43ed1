package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/Aakash768/imf-gadget-api/internal/api/handlers"
	"github.com/Aakash768/imf-gadget-api/internal/config"
	"github.com/Aakash768/imf-gadget-api/internal/metrics"
	"github.com/Aakash768/imf-gadget-api/internal/middleware"
	"github.com/Aakash768/imf-gadget-api/internal/models"
)

type RouterDeps struct {
	Cfg     config.Config
	Auth    *middleware.AuthMiddleware
	Users   *handlers.UserHandler
	Gadgets *handlers.GadgetHandler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(d.Cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	r.Use(middleware.HTTPMetrics)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("API is running")) })
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", d.Users.Register)
			r.Post("/login", d.Users.Login)
			r.With(d.Auth.Auth).Post("/logout", d.Users.Logout)
		})

		r.Route("/gadgets", func(r chi.Router) {
			r.Use(d.Auth.Auth)

			anyRole := middleware.RequireRole(models.RoleUser, models.RoleAdmin)
			adminOnly := middleware.RequireRole(models.RoleAdmin)

			r.With(anyRole).Get("/", d.Gadgets.List)
			r.With(adminOnly).Post("/", d.Gadgets.Create)
			r.With(adminOnly).Patch("/{identifier}", d.Gadgets.Update)
			r.With(adminOnly).Delete("/{identifier}", d.Gadgets.Decommission)
			r.With(adminOnly).Post("/{identifier}/self-destruct", d.Gadgets.SelfDestruct)
		})
	})

	return r
}
