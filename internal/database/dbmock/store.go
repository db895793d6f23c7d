// Package dbmock is an in-memory database.Querier for handler and
// assembly tests. It mirrors the Postgres constraints the real
// queries rely on: unique and foreign key violations surface as
// pgconn errors, lookups that match nothing return pgx.ErrNoRows.
package dbmock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rgood/tastebook/internal/database"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func fkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

type recipeLink struct {
	IngredientID int64
	Quantity     string
	Unit         string
	Notes        string
}

// Store holds all tables in memory. The zero value is not usable;
// construct with New.
type Store struct {
	mu sync.Mutex

	nextID int64

	Users       map[int64]database.User
	Categories  map[int64]database.Category
	Ingredients map[int64]database.Ingredient
	Recipes     map[int64]database.Recipe

	recipeCategories  map[int64][]int64
	recipeIngredients map[int64][]recipeLink
	Reviews           map[int64]database.Review
	Favorites         map[int64]database.Favorite
}

var _ database.Querier = (*Store)(nil)

func New() *Store {
	return &Store{
		Users:             make(map[int64]database.User),
		Categories:        make(map[int64]database.Category),
		Ingredients:       make(map[int64]database.Ingredient),
		Recipes:           make(map[int64]database.Recipe),
		recipeCategories:  make(map[int64][]int64),
		recipeIngredients: make(map[int64][]recipeLink),
		Reviews:           make(map[int64]database.Review),
		Favorites:         make(map[int64]database.Favorite),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// SeedUser inserts a user directly, bypassing constraints.
func (s *Store) SeedUser(username, email string) database.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := database.User{
		ID:        s.id(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.Users[u.ID] = u
	return u
}

// SeedCategory inserts a category directly.
func (s *Store) SeedCategory(name string) database.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := database.Category{ID: s.id(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Categories[c.ID] = c
	return c
}

// SeedRecipe inserts a bare recipe row directly.
func (s *Store) SeedRecipe(authorID int64, title string) database.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := database.Recipe{
		ID:         s.id(),
		AuthorID:   authorID,
		Title:      title,
		Difficulty: database.DifficultyMedium,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	s.Recipes[r.ID] = r
	return r
}

func (s *Store) CheckUsersTableExists(ctx context.Context) (bool, error) {
	return true, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.Users)), nil
}

func (s *Store) CreateUser(ctx context.Context, arg database.CreateUserParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.Email == arg.Email {
			return 0, uniqueViolation("users_email_key")
		}
		if u.Username == arg.Username {
			return 0, uniqueViolation("users_username_key")
		}
	}
	u := database.User{
		ID:           s.id(),
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Bio:          arg.Bio,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.Users[u.ID] = u
	return u.ID, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, arg database.UpdateUserParams) (database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[arg.ID]
	if !ok {
		return database.User{}, pgx.ErrNoRows
	}
	if arg.Username.Valid {
		for _, other := range s.Users {
			if other.ID != u.ID && other.Username == arg.Username.String {
				return database.User{}, uniqueViolation("users_username_key")
			}
		}
		u.Username = arg.Username.String
	}
	if arg.Bio.Valid {
		u.Bio = arg.Bio.String
	}
	u.UpdatedAt = time.Now()
	s.Users[u.ID] = u
	return u, nil
}

func (s *Store) UpdateUserPicture(ctx context.Context, arg database.UpdateUserPictureParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[arg.ID]
	if !ok {
		return database.ErrNoRowsAffected
	}
	u.ProfilePicture = arg.ProfilePicture
	u.UpdatedAt = time.Now()
	s.Users[u.ID] = u
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]database.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]database.Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetRecipeCategories(ctx context.Context, recipeID int64) ([]database.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Category
	for _, id := range s.recipeCategories[recipeID] {
		if c, ok := s.Categories[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListIngredients(ctx context.Context, search string) ([]database.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Ingredient
	for _, i := range s.Ingredients {
		if search == "" || strings.Contains(strings.ToLower(i.Name), strings.ToLower(search)) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetRecipeIngredients(ctx context.Context, recipeID int64) ([]database.GetRecipeIngredientsRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.GetRecipeIngredientsRow
	for _, link := range s.recipeIngredients[recipeID] {
		ing, ok := s.Ingredients[link.IngredientID]
		if !ok {
			continue
		}
		out = append(out, database.GetRecipeIngredientsRow{
			RecipeIngredient: database.RecipeIngredient{
				RecipeID:     recipeID,
				IngredientID: link.IngredientID,
				Quantity:     link.Quantity,
				Unit:         link.Unit,
				Notes:        link.Notes,
			},
			Ingredient: ing,
		})
	}
	return out, nil
}

// upsertIngredient resolves an ingredient id by exact name,
// creating the row when absent.
func (s *Store) upsertIngredient(name string) int64 {
	for _, i := range s.Ingredients {
		if i.Name == name {
			return i.ID
		}
	}
	i := database.Ingredient{ID: s.id(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	s.Ingredients[i.ID] = i
	return i.ID
}

func (s *Store) setRelations(recipeID int64, categoryIDs []int64, ingredients []database.IngredientInput) error {
	for _, categoryID := range categoryIDs {
		if _, ok := s.Categories[categoryID]; !ok {
			return fkViolation("recipe_categories_category_id_fkey")
		}
	}
	s.recipeCategories[recipeID] = append([]int64(nil), categoryIDs...)

	links := make([]recipeLink, 0, len(ingredients))
	seen := make(map[int64]bool)
	for _, ing := range ingredients {
		id := s.upsertIngredient(ing.Name)
		if seen[id] {
			return uniqueViolation("recipe_ingredients_recipe_id_ingredient_id_key")
		}
		seen[id] = true
		links = append(links, recipeLink{
			IngredientID: id,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
			Notes:        ing.Notes,
		})
	}
	s.recipeIngredients[recipeID] = links
	return nil
}

func (s *Store) CreateRecipe(ctx context.Context, arg database.CreateRecipeParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Users[arg.AuthorID]; !ok {
		return 0, fkViolation("recipes_author_id_fkey")
	}
	r := database.Recipe{
		ID:              s.id(),
		AuthorID:        arg.AuthorID,
		Title:           arg.Title,
		Description:     arg.Description,
		Instructions:    arg.Instructions,
		PreparationTime: arg.PreparationTime,
		CookingTime:     arg.CookingTime,
		Servings:        arg.Servings,
		Difficulty:      arg.Difficulty,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	s.Recipes[r.ID] = r
	if err := s.setRelations(r.ID, arg.CategoryIDs, arg.Ingredients); err != nil {
		delete(s.Recipes, r.ID)
		delete(s.recipeCategories, r.ID)
		delete(s.recipeIngredients, r.ID)
		return 0, err
	}
	return r.ID, nil
}

func (s *Store) GetRecipe(ctx context.Context, id int64) (database.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Recipes[id]
	if !ok {
		return database.Recipe{}, pgx.ErrNoRows
	}
	return r, nil
}

func (s *Store) UpdateRecipe(ctx context.Context, arg database.UpdateRecipeParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Recipes[arg.ID]
	if !ok {
		return database.ErrNoRowsAffected
	}
	if arg.Title.Valid {
		r.Title = arg.Title.String
	}
	if arg.Description.Valid {
		r.Description = arg.Description.String
	}
	if arg.Instructions.Valid {
		r.Instructions = arg.Instructions.String
	}
	if arg.PreparationTime.Valid {
		r.PreparationTime = arg.PreparationTime.Int32
	}
	if arg.CookingTime.Valid {
		r.CookingTime = arg.CookingTime.Int32
	}
	if arg.Servings.Valid {
		r.Servings = arg.Servings.Int32
	}
	if arg.Difficulty != nil {
		r.Difficulty = *arg.Difficulty
	}
	r.UpdatedAt = time.Now()
	s.Recipes[r.ID] = r

	if arg.CategoryIDs != nil || arg.Ingredients != nil {
		categoryIDs := s.recipeCategories[r.ID]
		if arg.CategoryIDs != nil {
			categoryIDs = *arg.CategoryIDs
		}
		var ingredients []database.IngredientInput
		if arg.Ingredients != nil {
			ingredients = *arg.Ingredients
		} else {
			for _, link := range s.recipeIngredients[r.ID] {
				ing := s.Ingredients[link.IngredientID]
				ingredients = append(ingredients, database.IngredientInput{
					Name:     ing.Name,
					Quantity: link.Quantity,
					Unit:     link.Unit,
					Notes:    link.Notes,
				})
			}
		}
		return s.setRelations(r.ID, categoryIDs, ingredients)
	}
	return nil
}

func (s *Store) UpdateRecipeImage(ctx context.Context, arg database.UpdateRecipeImageParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Recipes[arg.ID]
	if !ok {
		return database.ErrNoRowsAffected
	}
	r.Image = arg.Image
	r.UpdatedAt = time.Now()
	s.Recipes[r.ID] = r
	return nil
}

func (s *Store) DeleteRecipe(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Recipes[id]; !ok {
		return database.ErrNoRowsAffected
	}
	delete(s.Recipes, id)
	delete(s.recipeCategories, id)
	delete(s.recipeIngredients, id)
	for rid, rv := range s.Reviews {
		if rv.RecipeID == id {
			delete(s.Reviews, rid)
		}
	}
	for fid, f := range s.Favorites {
		if f.RecipeID == id {
			delete(s.Favorites, fid)
		}
	}
	return nil
}

func (s *Store) matchesSearch(r database.Recipe, search string) bool {
	contains := func(haystack string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(search))
	}
	if contains(r.Title) || contains(r.Description) {
		return true
	}
	for _, link := range s.recipeIngredients[r.ID] {
		if ing, ok := s.Ingredients[link.IngredientID]; ok && contains(ing.Name) {
			return true
		}
	}
	for _, categoryID := range s.recipeCategories[r.ID] {
		if c, ok := s.Categories[categoryID]; ok && contains(c.Name) {
			return true
		}
	}
	return false
}

func sortRecipes(out []database.Recipe, key string) {
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	value := func(r database.Recipe) int64 {
		switch key {
		case "preparation_time":
			return int64(r.PreparationTime)
		case "cooking_time":
			return int64(r.CookingTime)
		case "servings":
			return int64(r.Servings)
		case "created_at":
			return r.CreatedAt.UnixNano()
		}
		return 0
	}

	switch key {
	case "preparation_time", "cooking_time", "servings", "created_at":
		sort.Slice(out, func(i, j int) bool {
			vi, vj := value(out[i]), value(out[j])
			if vi != vj {
				if desc {
					return vi > vj
				}
				return vi < vj
			}
			if desc {
				return out[i].ID > out[j].ID
			}
			return out[i].ID < out[j].ID
		})
	default:
		// Unknown keys fall back to newest first.
		sort.Slice(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].ID > out[j].ID
		})
	}
}

func (s *Store) ListRecipes(ctx context.Context, arg database.ListRecipesParams) ([]database.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasCategory := func(recipeID, categoryID int64) bool {
		for _, id := range s.recipeCategories[recipeID] {
			if id == categoryID {
				return true
			}
		}
		return false
	}

	out := make([]database.Recipe, 0, len(s.Recipes))
	for _, r := range s.Recipes {
		if arg.CategoryID != nil && !hasCategory(r.ID, *arg.CategoryID) {
			continue
		}
		if arg.Difficulty != nil && r.Difficulty != *arg.Difficulty {
			continue
		}
		if arg.Search != "" && !s.matchesSearch(r, arg.Search) {
			continue
		}
		out = append(out, r)
	}
	sortRecipes(out, arg.Sort)
	return out, nil
}

func (s *Store) ListRecipesByCategory(ctx context.Context, categoryID int64) ([]database.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Recipe
	for _, r := range s.Recipes {
		for _, id := range s.recipeCategories[r.ID] {
			if id == categoryID {
				out = append(out, r)
				break
			}
		}
	}
	sortRecipes(out, "")
	return out, nil
}

func (s *Store) ListRecipesByIngredient(ctx context.Context, ingredientID int64) ([]database.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Recipe
	for _, r := range s.Recipes {
		for _, link := range s.recipeIngredients[r.ID] {
			if link.IngredientID == ingredientID {
				out = append(out, r)
				break
			}
		}
	}
	sortRecipes(out, "")
	return out, nil
}

func (s *Store) ListTopRatedRecipes(ctx context.Context) ([]database.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sums := make(map[int64][2]int64) // recipe id -> (sum, count)
	for _, rv := range s.Reviews {
		agg := sums[rv.RecipeID]
		agg[0] += int64(rv.Rating)
		agg[1]++
		sums[rv.RecipeID] = agg
	}

	var out []database.Recipe
	for id := range sums {
		if r, ok := s.Recipes[id]; ok {
			out = append(out, r)
		}
	}
	avg := func(id int64) float64 {
		agg := sums[id]
		return float64(agg[0]) / float64(agg[1])
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := avg(out[i].ID), avg(out[j].ID)
		if ai != aj {
			return ai > aj
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *Store) ListPopularRecipes(ctx context.Context) ([]database.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[int64]int)
	for _, f := range s.Favorites {
		counts[f.RecipeID]++
	}

	var out []database.Recipe
	for id := range counts {
		if r, ok := s.Recipes[id]; ok {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if counts[out[i].ID] != counts[out[j].ID] {
			return counts[out[i].ID] > counts[out[j].ID]
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *Store) CreateReview(ctx context.Context, arg database.CreateReviewParams) (database.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Recipes[arg.RecipeID]; !ok {
		return database.Review{}, fkViolation("reviews_recipe_id_fkey")
	}
	if _, ok := s.Users[arg.AuthorID]; !ok {
		return database.Review{}, fkViolation("reviews_author_id_fkey")
	}
	for _, rv := range s.Reviews {
		if rv.RecipeID == arg.RecipeID && rv.AuthorID == arg.AuthorID {
			return database.Review{}, uniqueViolation("reviews_recipe_id_author_id_key")
		}
	}
	rv := database.Review{
		ID:        s.id(),
		RecipeID:  arg.RecipeID,
		AuthorID:  arg.AuthorID,
		Rating:    arg.Rating,
		Comment:   arg.Comment,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.Reviews[rv.ID] = rv
	return rv, nil
}

func (s *Store) GetRecipeReviews(ctx context.Context, recipeID int64) ([]database.GetRecipeReviewsRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.GetRecipeReviewsRow
	for _, rv := range s.Reviews {
		if rv.RecipeID != recipeID {
			continue
		}
		author, ok := s.Users[rv.AuthorID]
		if !ok {
			continue
		}
		out = append(out, database.GetRecipeReviewsRow{Review: rv, Author: author})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetRecipeAverageRating(ctx context.Context, recipeID int64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum, count int64
	for _, rv := range s.Reviews {
		if rv.RecipeID == recipeID {
			sum += int64(rv.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (s *Store) UpsertFavorite(ctx context.Context, arg database.UpsertFavoriteParams) (database.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Favorites {
		if f.UserID == arg.UserID && f.RecipeID == arg.RecipeID {
			return f, nil
		}
	}
	if _, ok := s.Recipes[arg.RecipeID]; !ok {
		return database.Favorite{}, fkViolation("favorites_recipe_id_fkey")
	}
	if _, ok := s.Users[arg.UserID]; !ok {
		return database.Favorite{}, fkViolation("favorites_user_id_fkey")
	}
	f := database.Favorite{
		ID:        s.id(),
		UserID:    arg.UserID,
		RecipeID:  arg.RecipeID,
		CreatedAt: time.Now(),
	}
	s.Favorites[f.ID] = f
	return f, nil
}

func (s *Store) ListFavorites(ctx context.Context, userID int64) ([]database.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []database.Favorite
	for _, f := range s.Favorites {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteFavorite(ctx context.Context, arg database.DeleteFavoriteParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.Favorites {
		if f.UserID == arg.UserID && f.RecipeID == arg.RecipeID {
			delete(s.Favorites, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Store) IsFavorite(ctx context.Context, arg database.IsFavoriteParams) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Favorites {
		if f.UserID == arg.UserID && f.RecipeID == arg.RecipeID {
			return true, nil
		}
	}
	return false, nil
}
