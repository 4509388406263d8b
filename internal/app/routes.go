package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/icemedialab/varta/internal/handler"
	"github.com/icemedialab/varta/internal/middleware"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	base := handler.BaseHandler{Logger: app.logger}

	r.Get("/api/health", handler.Health(app.backend, app.version))

	authHandler := handler.NewAuthHandler(base, app.dash)
	r.Post("/api/auth/register", authHandler.Register)
	r.Post("/api/auth/login", authHandler.Login)
	r.Post("/api/auth/logout", authHandler.Logout)
	r.Get("/api/session", authHandler.Session)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(app.dash))

		usersHandler := handler.NewUsersHandler(base, app.dash)
		r.Get("/api/users", usersHandler.List)
		r.Get("/api/users/{email}", usersHandler.Get)
		r.Get("/api/profile", usersHandler.Profile)
		r.Put("/api/profile", usersHandler.UpdateProfile)
		r.Put("/api/view", usersHandler.SetView)

		reportsHandler := handler.NewReportsHandler(base, app.dash, app.sessions)
		r.With(middleware.RateLimit(middleware.PerMinute(app.config.GenerateRatePerMinute), app.config.GenerateRatePerMinute)).
			Post("/api/reports", reportsHandler.Generate)
		r.Get("/api/reports", reportsHandler.List)
		r.Post("/api/reports/clear", reportsHandler.Clear)
		r.Get("/api/reports/{id}", reportsHandler.Get)
		r.Post("/api/reports/{id}/open", reportsHandler.Open)
		r.Get("/api/reports/{id}/markdown", reportsHandler.Markdown)

		credentialHandler := handler.NewCredentialHandler(base, app.vault)
		r.Put("/api/credential", credentialHandler.Set)
		r.Delete("/api/credential", credentialHandler.Clear)
	})
	return r
}
