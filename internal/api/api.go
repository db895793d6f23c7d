// Package api wires the HTTP surface: routes, middleware and the
// server lifecycle.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rgood/tastebook/internal/api/middleware"
	"github.com/rgood/tastebook/internal/api/routes/favorites"
	"github.com/rgood/tastebook/internal/api/routes/ping"
	"github.com/rgood/tastebook/internal/api/routes/recipes"
	"github.com/rgood/tastebook/internal/api/routes/reviews"
	"github.com/rgood/tastebook/internal/api/routes/users"
	"github.com/rgood/tastebook/internal/env"
)

const shutdownTimeout = 10 * time.Second

// Routes builds the full router. Split out from Start so tests can
// serve it directly.
func Routes(e *env.Env) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.AddRequestID)
	r.Use(middleware.LogRequest(e.Logger))
	r.Use(middleware.InjectEnv(e))
	r.Use(middleware.AddCors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.Ping)

		r.Route("/recipes", func(r chi.Router) {
			// Open reads; a bearer token, when present, marks
			// favorites in the payload.
			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalUser)
				r.Get("/", recipes.ListRecipes)
				r.Get("/top-rated", recipes.ListTopRated)
				r.Get("/popular", recipes.ListPopular)
				r.Get("/categories", recipes.ListCategories)
				r.Get("/ingredients", recipes.ListIngredients)
				r.Get("/category/{categoryID}", recipes.ListByCategory)
				r.Get("/ingredient/{ingredientID}", recipes.ListByIngredient)
				r.Get("/{recipeID}", recipes.GetRecipe)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Post("/", recipes.CreateRecipe)
				r.Put("/{recipeID}", recipes.UpdateRecipe)
				r.Patch("/{recipeID}", recipes.UpdateRecipe)
				r.Delete("/{recipeID}", recipes.DeleteRecipe)
				r.Post("/{recipeID}/cover", recipes.UpdateRecipeCover)
				r.Post("/{recipeID}/reviews", reviews.CreateReview)

				r.Get("/favorites", favorites.ListFavorites)
				r.Post("/favorites", favorites.CreateFavorite)
				r.Delete("/favorites/{recipeID}", favorites.DeleteFavorite)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/me", users.GetMe)
			r.Patch("/me", users.UpdateMe)
			r.Post("/me/picture", users.UpdatePicture)
		})
	})

	return r
}

// Start serves the API until the context is cancelled, then shuts
// down gracefully.
func Start(ctx context.Context, e *env.Env) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", e.Config.Port),
		Handler: Routes(e),
	}

	errCh := make(chan error, 1)
	go func() {
		e.Logger.InfoContext(ctx, "starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	e.Logger.InfoContext(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
