// Package router sets up all HTTP routes and middleware chains for the
// Scoop Afrique editorial API. It organizes routes into public and
// staff groups with appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ngucho/scoop-afrique-sub000/internal/handlers"
	"github.com/ngucho/scoop-afrique-sub000/internal/middleware"
	"github.com/ngucho/scoop-afrique-sub000/internal/models"
	"github.com/ngucho/scoop-afrique-sub000/internal/session"
)

// Deps carries the handler groups the router wires up.
type Deps struct {
	Sessions      *session.Store
	Auth          *handlers.Auth
	Articles      *handlers.Articles
	Locks         *handlers.Locks
	Collaborators *handlers.Collaborators
	Comments      *handlers.Comments
	Notifications *handlers.Notifications
	Users         *handlers.Users
	Public        *handlers.Public
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Login is rate-limited against credential stuffing.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	r.With(loginLimiter.Middleware).Post("/api/login", d.Auth.Login)
	r.Post("/api/logout", d.Auth.Logout)

	// Staff API — session plus CSRF on every mutating request.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)

		r.Get("/me", d.Auth.Me)
		r.Get("/notifications", d.Notifications.Summary)
		r.With(middleware.RequireRole(models.RoleEditor)).Get("/users", d.Users.List)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", d.Articles.List)
			r.Post("/", d.Articles.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Articles.Get)
				r.Put("/", d.Articles.Save)
				r.Delete("/", d.Articles.Delete)
				r.Post("/publish", d.Articles.Publish)

				// Edit lease
				r.Route("/lock", func(r chi.Router) {
					r.Get("/", d.Locks.Status)
					r.Post("/", d.Locks.Acquire)
					r.Put("/", d.Locks.Renew)
					r.Delete("/", d.Locks.Release)
				})

				// Version history
				r.Get("/revisions", d.Articles.Revisions)
				r.Post("/revisions/{version}/restore", d.Articles.Restore)

				// Collaborators
				r.Post("/collaborators", d.Collaborators.Add)
				r.Delete("/collaborators/{userID}", d.Collaborators.Remove)

				// Editorial discussion
				r.Get("/comments", d.Comments.ListEditorial)
				r.Post("/comments", d.Comments.AddEditorial)
			})
		})

		r.Post("/comments/{commentID}/resolve", d.Comments.ResolveEditorial)
		r.With(middleware.RequireRole(models.RoleEditor)).
			Post("/moderation/{commentID}", d.Comments.Moderate)
	})

	// Public feed — no session required. Comment submission is
	// rate-limited against spam floods.
	commentLimiter := middleware.NewRateLimiter(5, time.Minute)
	r.Route("/api/feed", func(r chi.Router) {
		r.Get("/", d.Public.Feed)
		r.Get("/categories", d.Public.Categories)
		r.Get("/{slug}", d.Public.Article)
		r.With(commentLimiter.Middleware).Post("/{slug}/comments", d.Public.SubmitComment)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
