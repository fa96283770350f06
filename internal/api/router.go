package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rajkumar/portfolio-site/internal/api/handlers"
	"github.com/rajkumar/portfolio-site/internal/api/middleware"
	"github.com/rajkumar/portfolio-site/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.WithIdentity(services.Auth))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	blogHandler := handlers.NewBlogHandler(services.Blog)
	tagHandler := handlers.NewTagHandler(services.Tag)
	pageHandler := handlers.NewPageHandler(services.Blog, services.Tag)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		r.Route("/blogs", func(r chi.Router) {
			// Public read surface
			r.Get("/", blogHandler.List)
			r.Get("/{slug}", blogHandler.Get)

			// Admin write surface; handlers check the role again themselves
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdminAPI)
				r.Post("/", blogHandler.Create)
				r.Put("/{slug}", blogHandler.Update)
				r.Delete("/{slug}", blogHandler.Delete)
			})
		})

		r.Get("/tags", tagHandler.List)
	})

	// Server-rendered pages
	r.Get("/", pageHandler.Home)
	r.Get("/login", pageHandler.Login)
	r.Get("/blogs", pageHandler.BlogList)
	r.Get("/blogs/{slug}", pageHandler.BlogDetail)

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdminPages)
		r.Get("/blog", pageHandler.AdminBlogList)
	})

	return r
}
