package recipe

import (
	"context"
	"testing"

	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/database/dbmock"
)

func TestAssemble(t *testing.T) {
	ctx := context.Background()
	store := dbmock.New()
	author := store.SeedUser("carol", "carol@example.com")
	reviewer := store.SeedUser("dave", "dave@example.com")
	dessert := store.SeedCategory("Dessert")

	recipeID, err := store.CreateRecipe(ctx, database.CreateRecipeParams{
		AuthorID:    author.ID,
		Title:       "Flan",
		Difficulty:  database.DifficultyEasy,
		CategoryIDs: []int64{dessert.ID},
		Ingredients: []database.IngredientInput{
			{Name: "Eggs", Quantity: "4"},
			{Name: "Sugar", Quantity: "150", Unit: "g"},
		},
	})
	if err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	if _, err := store.CreateReview(ctx, database.CreateReviewParams{
		RecipeID: recipeID,
		AuthorID: reviewer.ID,
		Rating:   4,
		Comment:  "would make again",
	}); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}
	if _, err := store.CreateReview(ctx, database.CreateReviewParams{
		RecipeID: recipeID,
		AuthorID: author.ID,
		Rating:   5,
	}); err != nil {
		t.Fatalf("failed to create review: %v", err)
	}

	row, err := store.GetRecipe(ctx, recipeID)
	if err != nil {
		t.Fatalf("failed to get recipe: %v", err)
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		payload, err := Assemble(ctx, store, row, nil, nil)
		if err != nil {
			t.Fatalf("failed to assemble recipe: %v", err)
		}
		if payload.Author.ID != author.ID {
			t.Errorf("expected author %d, got %d", author.ID, payload.Author.ID)
		}
		if len(payload.Categories) != 1 || payload.Categories[0].Name != "Dessert" {
			t.Errorf("unexpected categories: %+v", payload.Categories)
		}
		if len(payload.Ingredients) != 2 {
			t.Fatalf("expected 2 ingredients, got %d", len(payload.Ingredients))
		}
		if len(payload.Reviews) != 2 {
			t.Fatalf("expected 2 reviews, got %d", len(payload.Reviews))
		}
		if payload.AverageRating != 4.5 {
			t.Errorf("expected average rating 4.5, got %g", payload.AverageRating)
		}
		if payload.IsFavorite {
			t.Error("anonymous viewers never have favorites")
		}
	})

	t.Run("viewer with a favorite", func(t *testing.T) {
		if _, err := store.UpsertFavorite(ctx, database.UpsertFavoriteParams{
			UserID:   reviewer.ID,
			RecipeID: recipeID,
		}); err != nil {
			t.Fatalf("failed to favorite recipe: %v", err)
		}

		payload, err := Assemble(ctx, store, row, nil, &reviewer.ID)
		if err != nil {
			t.Fatalf("failed to assemble recipe: %v", err)
		}
		if !payload.IsFavorite {
			t.Error("expected is_favorite for the favoriting viewer")
		}

		other, err := Assemble(ctx, store, row, nil, &author.ID)
		if err != nil {
			t.Fatalf("failed to assemble recipe: %v", err)
		}
		if other.IsFavorite {
			t.Error("favorites are per user")
		}
	})
}

func TestAssembleNoReviews(t *testing.T) {
	ctx := context.Background()
	store := dbmock.New()
	author := store.SeedUser("carol", "carol@example.com")
	row := store.SeedRecipe(author.ID, "Toast")

	payload, err := Assemble(ctx, store, row, nil, nil)
	if err != nil {
		t.Fatalf("failed to assemble recipe: %v", err)
	}
	if payload.AverageRating != 0 {
		t.Errorf("expected average rating 0 without reviews, got %g", payload.AverageRating)
	}
	if len(payload.Reviews) != 0 {
		t.Errorf("expected no reviews, got %d", len(payload.Reviews))
	}
}
