package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/models"
	"github.com/shopspring/decimal"
)

func newTestRecipeRepo(t *testing.T) (*recipeRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newTestDB(t)
	return &recipeRepository{db: db, logger: logger.Nop()}, mock
}

func recipeRow(id, userID int64, title string) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "user_id", "title", "description", "price", "time_minutes", "created_at"}).
		AddRow(id, userID, title, "a description", "5.50", 30, time.Now())
}

func TestCreateRecipe_WithTags(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()
	recipe := models.Recipe{
		UserID:      1,
		Title:       "Pancakes",
		Description: "fluffy",
		Price:       decimal.RequireFromString("5.50"),
		TimeMinutes: 30,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WithArgs(recipe.UserID, recipe.Title, recipe.Description, recipe.Price, recipe.TimeMinutes).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now()))
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(int64(1), "Breakfast").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(int64(1), "Sweet").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectExec("DELETE FROM recipe_tags").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO recipe_tags").
		WithArgs(int64(10), int64(100), int64(10), int64(101)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	created, err := repo.CreateRecipe(ctx, recipe, []string{"Breakfast", "Sweet"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 10 {
		t.Errorf("expected ID=10, got %d", created.ID)
	}
	if len(created.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(created.Tags))
	}
	if created.Tags[0].Name != "Breakfast" || created.Tags[1].Name != "Sweet" {
		t.Errorf("unexpected tags: %+v", created.Tags)
	}
}

func TestCreateRecipe_DeduplicatesTagNames(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()
	recipe := models.Recipe{UserID: 1, Title: "Soup", Price: decimal.New(3, 0), TimeMinutes: 10}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, time.Now()))
	// only one upsert despite the duplicated name
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(int64(1), "Vegan").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(200))
	mock.ExpectExec("DELETE FROM recipe_tags").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO recipe_tags").
		WithArgs(int64(11), int64(200)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.CreateRecipe(ctx, recipe, []string{"Vegan", "Vegan"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created.Tags) != 1 {
		t.Fatalf("expected 1 tag after dedup, got %d", len(created.Tags))
	}
}

func TestCreateRecipe_NoTagsKeyTouchesNoTagTables(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()
	recipe := models.Recipe{UserID: 1, Title: "Toast", Price: decimal.New(1, 0), TimeMinutes: 5}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO recipes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))
	mock.ExpectCommit()

	created, err := repo.CreateRecipe(ctx, recipe, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created.Tags) != 0 {
		t.Errorf("expected no tags, got %+v", created.Tags)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet or extra expectations: %v", err)
	}
}

func TestListRecipes_AttachesTags(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()

	listRows := sqlmock.
		NewRows([]string{"id", "user_id", "title", "description", "price", "time_minutes", "created_at"}).
		AddRow(2, 1, "Newer", "d", "2.00", 10, time.Now()).
		AddRow(1, 1, "Older", "d", "1.00", 20, time.Now())

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs(int64(1)).
		WillReturnRows(listRows)

	tagRows := sqlmock.
		NewRows([]string{"recipe_id", "id", "user_id", "name"}).
		AddRow(2, 100, 1, "Dinner")

	mock.ExpectQuery("SELECT rt.recipe_id").
		WillReturnRows(tagRows)

	recipes, err := repo.ListRecipes(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].ID != 2 || recipes[1].ID != 1 {
		t.Errorf("expected newest-first order, got %d then %d", recipes[0].ID, recipes[1].ID)
	}
	if len(recipes[0].Tags) != 1 || recipes[0].Tags[0].Name != "Dinner" {
		t.Errorf("expected tag attached to recipe 2, got %+v", recipes[0].Tags)
	}
	if len(recipes[1].Tags) != 0 {
		t.Errorf("expected no tags on recipe 1, got %+v", recipes[1].Tags)
	}
}

func TestListRecipes_EmptyResultSkipsTagQuery(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "description", "price", "time_minutes", "created_at"}))

	recipes, err := repo.ListRecipes(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recipes) != 0 {
		t.Errorf("expected empty list, got %+v", recipes)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet or extra expectations: %v", err)
	}
}

func TestGetRecipe_NotFound(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()

	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs(int64(99), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetRecipe(ctx, 1, 99)
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestUpdateRecipe_ScalarFields(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()
	newTitle := "Renamed"

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE recipes SET title").
		WithArgs(newTitle, int64(10), int64(1)).
		WillReturnRows(recipeRow(10, 1, newTitle))
	mock.ExpectQuery("SELECT rt.recipe_id").
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id", "id", "user_id", "name"}))
	mock.ExpectCommit()

	updated, err := repo.UpdateRecipe(ctx, 1, 10, RecipeUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("expected title %q, got %q", newTitle, updated.Title)
	}
}

func TestUpdateRecipe_EmptyTagListClearsAssociations(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()
	noTags := []string{}

	mock.ExpectBegin()
	// tags-only update: existence is verified with a plain select
	mock.ExpectQuery("SELECT id, user_id, title").
		WithArgs(int64(10), int64(1)).
		WillReturnRows(recipeRow(10, 1, "Pancakes"))
	mock.ExpectExec("DELETE FROM recipe_tags").
		WithArgs(int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	updated, err := repo.UpdateRecipe(ctx, 1, 10, RecipeUpdate{Tags: &noTags})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Errorf("expected cleared tag set, got %+v", updated.Tags)
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet or extra expectations: %v", err)
	}
}

func TestUpdateRecipe_NotOwned(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()
	newTitle := "Hijack"

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE recipes SET title").
		WithArgs(newTitle, int64(10), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateRecipe(ctx, 2, 10, RecipeUpdate{Title: &newTitle})
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestDeleteRecipe_Success(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM recipes").
		WithArgs(int64(10), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteRecipe(ctx, 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteRecipe_NotFound(t *testing.T) {
	repo, mock := newTestRecipeRepo(t)

	ctx := context.Background()

	mock.ExpectExec("DELETE FROM recipes").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteRecipe(ctx, 1, 99); !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound, got %v", err)
	}
}
