package recipes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rgood/tastebook/internal/database"
	"github.com/rgood/tastebook/internal/database/dbmock"
	"github.com/rgood/tastebook/internal/recipe"
)

func decodeRecipes(t *testing.T, rec *httptest.ResponseRecorder) []recipe.Recipe {
	t.Helper()
	var payload []recipe.Recipe
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode recipes: %v", err)
	}
	return payload
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

func titles(recipes []recipe.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Title)
	}
	return out
}

func TestListRecipes(t *testing.T) {
	ctx := context.Background()
	store := dbmock.New()
	author := store.SeedUser("alice", "alice@example.com")
	dinner := store.SeedCategory("Dinner")
	dessert := store.SeedCategory("Dessert")
	server := newServer(store)

	mustCreate := func(arg database.CreateRecipeParams) int64 {
		t.Helper()
		arg.AuthorID = author.ID
		if arg.Difficulty == "" {
			arg.Difficulty = database.DifficultyMedium
		}
		id, err := store.CreateRecipe(ctx, arg)
		if err != nil {
			t.Fatalf("failed to create recipe %q: %v", arg.Title, err)
		}
		return id
	}

	mustCreate(database.CreateRecipeParams{
		Title:       "Carbonara",
		CookingTime: 15,
		Difficulty:  database.DifficultyEasy,
		CategoryIDs: []int64{dinner.ID},
		Ingredients: []database.IngredientInput{{Name: "Spaghetti"}},
	})
	mustCreate(database.CreateRecipeParams{
		Title:       "Tiramisu",
		Description: "coffee and mascarpone",
		CookingTime: 30,
		Difficulty:  database.DifficultyHard,
		CategoryIDs: []int64{dessert.ID},
		Ingredients: []database.IngredientInput{{Name: "Mascarpone"}},
	})
	mustCreate(database.CreateRecipeParams{
		Title:       "Ragu",
		CookingTime: 180,
		Difficulty:  database.DifficultyEasy,
		CategoryIDs: []int64{dinner.ID},
		Ingredients: []database.IngredientInput{{Name: "Spaghetti"}, {Name: "Beef"}},
	})

	tests := []struct {
		name       string
		path       string
		wantTitles []string
	}{
		{
			name:       "filter by category",
			path:       "/api/recipes?categories=" + itoa(dessert.ID),
			wantTitles: []string{"Tiramisu"},
		},
		{
			name:       "non-numeric category filter is ignored",
			path:       "/api/recipes?categories=all&ordering=cooking_time",
			wantTitles: []string{"Carbonara", "Tiramisu", "Ragu"},
		},
		{
			name:       "filter by difficulty",
			path:       "/api/recipes?difficulty=easy&ordering=cooking_time",
			wantTitles: []string{"Carbonara", "Ragu"},
		},
		{
			name:       "search matches title",
			path:       "/api/recipes?search=carbo",
			wantTitles: []string{"Carbonara"},
		},
		{
			name:       "search matches description",
			path:       "/api/recipes?search=mascarpone",
			wantTitles: []string{"Tiramisu"},
		},
		{
			name:       "search matches ingredient name",
			path:       "/api/recipes?search=beef",
			wantTitles: []string{"Ragu"},
		},
		{
			name:       "search matches category name",
			path:       "/api/recipes?search=dessert",
			wantTitles: []string{"Tiramisu"},
		},
		{
			name:       "ordering by cooking time descending",
			path:       "/api/recipes?ordering=-cooking_time",
			wantTitles: []string{"Ragu", "Tiramisu", "Carbonara"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, server, http.MethodGet, tt.path, "", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
			}
			got := titles(decodeRecipes(t, rec))
			if len(got) != len(tt.wantTitles) {
				t.Fatalf("expected %v, got %v", tt.wantTitles, got)
			}
			for i := range got {
				if got[i] != tt.wantTitles[i] {
					t.Fatalf("expected %v, got %v", tt.wantTitles, got)
				}
			}
		})
	}

	t.Run("unknown difficulty is rejected", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/recipes?difficulty=impossible", "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestListTopRatedAndPopular(t *testing.T) {
	ctx := context.Background()
	store := dbmock.New()
	author := store.SeedUser("alice", "alice@example.com")
	fanOne := store.SeedUser("bob", "bob@example.com")
	fanTwo := store.SeedUser("carol", "carol@example.com")
	store.SeedRecipe(author.ID, "Plain")
	good := store.SeedRecipe(author.ID, "Good")
	great := store.SeedRecipe(author.ID, "Great")
	server := newServer(store)

	review := func(userID, recipeID int64, rating int32) {
		t.Helper()
		if _, err := store.CreateReview(ctx, database.CreateReviewParams{
			RecipeID: recipeID,
			AuthorID: userID,
			Rating:   rating,
		}); err != nil {
			t.Fatalf("failed to create review: %v", err)
		}
	}
	favorite := func(userID, recipeID int64) {
		t.Helper()
		if _, err := store.UpsertFavorite(ctx, database.UpsertFavoriteParams{
			UserID:   userID,
			RecipeID: recipeID,
		}); err != nil {
			t.Fatalf("failed to favorite recipe: %v", err)
		}
	}

	review(fanOne.ID, good.ID, 3)
	review(fanTwo.ID, good.ID, 4)
	review(fanOne.ID, great.ID, 5)

	favorite(fanOne.ID, good.ID)
	favorite(fanTwo.ID, good.ID)
	favorite(fanOne.ID, great.ID)

	t.Run("top rated excludes unreviewed and sorts by mean", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/recipes/top-rated", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		got := titles(decodeRecipes(t, rec))
		want := []string{"Great", "Good"}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("popular excludes unfavorited and sorts by count", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/recipes/popular", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		got := titles(decodeRecipes(t, rec))
		want := []string{"Good", "Great"}
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("viewer sees their favorites flagged", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/recipes/popular", bearer(t, fanTwo.ID), nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		for _, r := range decodeRecipes(t, rec) {
			want := r.ID == good.ID
			if r.IsFavorite != want {
				t.Errorf("recipe %q: expected is_favorite %t, got %t", r.Title, want, r.IsFavorite)
			}
		}
	})
}

func TestListCategoriesAndIngredients(t *testing.T) {
	ctx := context.Background()
	store := dbmock.New()
	author := store.SeedUser("alice", "alice@example.com")
	store.SeedCategory("Dinner")
	store.SeedCategory("Breakfast")
	server := newServer(store)

	if _, err := store.CreateRecipe(ctx, database.CreateRecipeParams{
		AuthorID:   author.ID,
		Title:      "Pancakes",
		Difficulty: database.DifficultyEasy,
		Ingredients: []database.IngredientInput{
			{Name: "Flour"}, {Name: "Milk"}, {Name: "Eggs"},
		},
	}); err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	t.Run("categories sorted by name", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/recipes/categories", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var payload []recipe.Category
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode categories: %v", err)
		}
		if len(payload) != 2 || payload[0].Name != "Breakfast" || payload[1].Name != "Dinner" {
			t.Errorf("unexpected categories: %+v", payload)
		}
	})

	t.Run("ingredient search", func(t *testing.T) {
		rec := doJSON(t, server, http.MethodGet, "/api/recipes/ingredients?search=il", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var payload []recipe.Ingredient
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode ingredients: %v", err)
		}
		if len(payload) != 1 || payload[0].Name != "Milk" {
			t.Errorf("expected only Milk, got %+v", payload)
		}
	})
}
