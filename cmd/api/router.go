package main

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/privlab/leakshare/internal/config"
	"github.com/privlab/leakshare/internal/handlers"
	"github.com/privlab/leakshare/internal/middleware"
	"github.com/privlab/leakshare/internal/repo"
	"github.com/privlab/leakshare/internal/scraper"
)

// newRouter wires repositories, the harvester and all routes. Split from main
// so the integration test can build the full stack against a mock DB.
func newRouter(database *sql.DB, cfg config.Config) (http.Handler, *scraper.Harvester) {
	userRepo := repo.NewUserRepo(database)
	postRepo := repo.NewPostRepo(database)
	logRepo := repo.NewAccessLogRepo(database)

	harvester := scraper.New(userRepo, postRepo, logRepo, cfg.ScraperStepDelay)

	secret := []byte(cfg.JWTSecret)
	auth := &handlers.AuthHandler{Users: userRepo, Logs: logRepo, Secret: secret, ExpireHours: cfg.JWTExpireHours}
	posts := &handlers.PostHandler{Posts: postRepo, Logs: logRepo}
	api := &handlers.APIHandler{Users: userRepo, Posts: postRepo, Logs: logRepo}
	admin := &handlers.AdminHandler{Users: userRepo, Posts: postRepo, Logs: logRepo}
	scraperH := &handlers.ScraperHandler{Harvester: harvester, Logs: logRepo}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints, rate-limited per IP.
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/auth/register", auth.Register)
		r.Post("/auth/login", auth.Login)
	})

	// Authenticated (compliant) surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT(secret))
		r.Post("/auth/profile", auth.UpdateProfile)
		r.Post("/auth/delete-account", auth.DeleteAccount)
		r.Post("/posts", posts.Create)
		r.Post("/posts/{id}/edit", posts.Edit)
		r.Post("/posts/{id}/delete", posts.Delete)
		r.Get("/api/users/me", api.Me)
		r.Get("/api/posts/me", api.MyPosts)
		r.Get("/api/logs", api.MyLogs)
	})

	// Public surface. The /api dumps need no auth at all; a bearer token, if
	// present, only attributes the access-log row to the viewer.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalJWT(secret))
		r.Get("/posts", posts.ListPublic)
		r.Get("/users/{username}", api.UserProfile)
		r.Get("/api/users", api.AllUsers)
		r.Get("/api/posts", api.AllPosts)
		r.Get("/api/users/{id}", api.UserByID)
		r.Get("/api/posts/all", api.AllPostsIncludingDeleted)
	})

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT(secret), middleware.RequireAdmin)
		r.Post("/scraper/start", scraperH.Start)
		r.Post("/scraper/stop", scraperH.Stop)
		r.Get("/scraper/status", scraperH.Status)
		r.Get("/admin/users", admin.ListUsers)
		r.Get("/admin/posts", admin.ListPosts)
		r.Get("/admin/logs", admin.ListLogs)
		r.Post("/admin/users/{id}", admin.EditUser)
	})

	return r, harvester
}
