package handlers

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaughan-dsouza/AcadGo/internal/middleware"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
)

// Routes mounts every route on a fresh chi router. Role gates are
// exact-match; routes admins need are gated admin explicitly.
func (h *Handler) Routes(authmw *middleware.Auth) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	// Public
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/register", h.Auth.Register)
	r.Post("/auth/login", h.Auth.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(authmw.Authenticate)

		r.Get("/me", h.Auth.Me)
		r.Get("/courses", h.Courses.List)
		r.Get("/courses/{id}", h.Courses.Get)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(models.RoleAdmin))

			r.Post("/students", h.Students.Create)
			r.Get("/students", h.Students.List)
			r.Get("/students/{id}", h.Students.Get)
			r.Put("/students/{id}", h.Students.Update)
			r.Delete("/students/{id}", h.Students.Delete)

			r.Post("/courses", h.Courses.Create)
			r.Put("/courses/{id}", h.Courses.Update)
			r.Delete("/courses/{id}", h.Courses.Delete)
		})

		// Student self-service
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(models.RoleStudent))

			r.Get("/my/profile", h.Students.MyProfile)
			r.Post("/registrations", h.Registrations.Create)
			r.Get("/my/registrations", h.Registrations.Mine)
			r.Get("/my/results", h.Results.Mine)
		})

		// Lecturer
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireRole(models.RoleLecturer))

			r.Get("/courses/{id}/registrations", h.Registrations.ForCourse)
			r.Post("/results", h.Results.Record)
			r.Put("/results/{id}", h.Results.Update)
		})
	})

	return r
}
