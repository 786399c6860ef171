// Package api assembles the HTTP surface: the WhatsApp webhook endpoints and
// the REST API used by the mobile app.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Hemanthlepcha/budget-tracker-app/internal/api/handlers"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/api/middleware"
	"github.com/Hemanthlepcha/budget-tracker-app/internal/whatsapp"
)

// Deps collects everything the router serves.
type Deps struct {
	Webhook      *whatsapp.Handler
	Transactions *handlers.TransactionsHandler
	Categories   *handlers.CategoriesHandler
	Goals        *handlers.GoalsHandler
	Profile      *handlers.ProfileHandler
	Logger       zerolog.Logger
}

// NewRouter builds the full route tree. The webhook endpoints sit outside
// RequireUser: the transport authenticates with the verify token, not a user
// header.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Route("/api/whatsapp/webhook", func(r chi.Router) {
		r.Get("/", d.Webhook.HandleVerification)
		r.Post("/", d.Webhook.HandleWebhook)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", d.Transactions.List)
			r.Post("/", d.Transactions.Create)
			r.Get("/summary", d.Transactions.Summary)
			r.Put("/{id}", d.Transactions.Update)
			r.Delete("/{id}", d.Transactions.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.Put("/{id}", d.Categories.Update)
			r.Delete("/{id}", d.Categories.Delete)
		})

		r.Route("/goal", func(r chi.Router) {
			r.Get("/", d.Goals.Get)
			r.Put("/", d.Goals.Upsert)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", d.Profile.Get)
			r.Put("/", d.Profile.Upsert)
		})
	})

	return r
}
