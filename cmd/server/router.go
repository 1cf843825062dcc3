package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wordloop/wordloop-api/internal/api"
	apiMiddleware "github.com/wordloop/wordloop-api/internal/api/middleware"
)

// setupRouter builds the HTTP routing table: public auth endpoints, a health
// check, and the authenticated study surface.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.tokenService, app.passwords)
	wordHandler := api.NewWordHandler(app.db, app.wordStore)
	reviewHandler := api.NewReviewHandler(
		app.registry,
		app.wordStore,
		app.progressStore,
		app.resultStore,
		app.scheduler,
		app.emitter,
		app.clock,
		app.config.Study,
		app.logger,
	)
	quizHandler := api.NewQuizHandler(
		app.registry,
		app.wordStore,
		app.resultStore,
		app.emitter,
		app.clock,
		app.config.Study,
		app.logger,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.tokenService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/words", wordHandler.Create)
			r.Post("/words/import", wordHandler.Import)
			r.Get("/words", wordHandler.List)
			r.Get("/words/{id}", wordHandler.Get)

			r.Post("/reviews", reviewHandler.Start)
			r.Get("/reviews/{id}", reviewHandler.Get)
			r.Post("/reviews/{id}/swipes", reviewHandler.Swipe)
			r.Post("/reviews/{id}/undo", reviewHandler.Undo)
			r.Delete("/reviews/{id}", reviewHandler.Delete)

			r.Post("/quizzes", quizHandler.Start)
			r.Get("/quizzes/{id}", quizHandler.Get)
			r.Post("/quizzes/{id}/answer", quizHandler.Answer)
			r.Post("/quizzes/{id}/selection", quizHandler.Select)
			r.Post("/quizzes/{id}/submit", quizHandler.Submit)
			r.Post("/quizzes/{id}/advance", quizHandler.Advance)
			r.Delete("/quizzes/{id}", quizHandler.Delete)
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
