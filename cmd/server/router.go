package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/deckmate/deckmate-api/internal/api"
	apiMiddleware "github.com/deckmate/deckmate-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.personService, app.jwtService)
	personHandler := api.NewPersonHandler(app.personService)
	deckHandler := api.NewDeckHandler(app.deckService)
	cardHandler := api.NewCardHandler(app.cardService)
	learningHandler := api.NewLearningHandler(app.learningService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.personStore)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Endpoints readable without an account. An authenticated viewer
		// still influences visibility, so the optional variant runs here.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.AuthenticateOptional)
			r.Get("/decks/available", deckHandler.ListAvailable)
			r.Get("/decks/{deckID}", deckHandler.Get)
			r.Get("/decks/{deckID}/cards", cardHandler.List)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/persons/me", personHandler.Me)

			// Deck management
			r.Post("/decks", deckHandler.Create)
			r.Get("/decks/owned", deckHandler.ListOwned)
			r.Get("/decks/subscribed", deckHandler.ListSubscribed)
			r.Put("/decks/{deckID}", deckHandler.Update)
			r.Delete("/decks/{deckID}", deckHandler.Delete)
			r.Post("/decks/{deckID}/publish", deckHandler.Publish)
			r.Post("/decks/{deckID}/unpublish", deckHandler.Unpublish)
			r.Post("/decks/{deckID}/subscribe", deckHandler.Subscribe)
			r.Delete("/decks/{deckID}/subscribe", deckHandler.Unsubscribe)

			// Card management
			r.Post("/decks/{deckID}/cards", cardHandler.Create)
			r.Post("/decks/{deckID}/cards/batch", cardHandler.CreateBatch)
			r.Put("/cards/{cardID}", cardHandler.Update)
			r.Delete("/cards/{cardID}", cardHandler.Delete)

			// Learning endpoints
			r.Get("/decks/{deckID}/learn", learningHandler.CardsToLearn)
			r.Post("/cards/{cardID}/grade", learningHandler.SubmitGrade)
			r.Get("/cards/{cardID}/progress", learningHandler.GetProgress)
		})

		// Administrative routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequireAdmin)

			r.Get("/admin/persons", personHandler.List)
			r.Post("/admin/persons", personHandler.Create)
			r.Get("/admin/persons/{personID}", personHandler.Get)
			r.Put("/admin/persons/{personID}/permissions", personHandler.UpdatePermissions)
			r.Delete("/admin/persons/{personID}", personHandler.Delete)
			r.Get("/admin/persons/{personID}/decks", deckHandler.ListByPerson)
			r.Get("/admin/permissions", personHandler.ListPermissions)

			r.Get("/admin/decks", deckHandler.ListAll)
			r.Post("/admin/decks/{deckID}/block", deckHandler.Block)
			r.Post("/admin/decks/{deckID}/unblock", deckHandler.Unblock)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
