package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/models"
)

// recipeColumns is the full column list of the "recipes" table, in scan order.
var recipeColumns = []string{
	"id", "user_id", "title", "description", "price", "time_minutes", "created_at",
}

// dbtx is the subset of *sql.DB and *sql.Tx the recipe queries run against,
// so that tag loading and reconciliation work inside and outside a
// transaction alike.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// recipeRepository is the SQL-backed implementation of [RecipeRepository].
// It owns all recipe CRUD plus the tag-reconciliation path invoked on
// recipe writes.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (user_id, recipe_id, tag names, etc.).
type recipeRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRecipeRepository constructs a [RecipeRepository] backed by the provided
// database connection and logger.
func NewRecipeRepository(db *DB, logger *logger.Logger) RecipeRepository {
	logger.Debug().Msg("creating recipe repository")
	return &recipeRepository{
		db:     db,
		logger: logger,
	}
}

// ListRecipes returns every recipe owned by ownerID, most recently created
// first (id descending), with tag sets attached.
func (r *recipeRepository) ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select(recipeColumns...).
		From(models.Recipe{}.TableName()).
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("id DESC").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.ListRecipes").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*recipeRepository.ListRecipes").
			Int64("user_id", ownerID).
			Msg("failed to execute query for listing recipes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0, 20)
	recipeIDs := make([]int64, 0, 20)

	for rows.Next() {
		var recipe models.Recipe

		scanErr := rows.Scan(
			&recipe.ID,
			&recipe.UserID,
			&recipe.Title,
			&recipe.Description,
			&recipe.Price,
			&recipe.TimeMinutes,
			&recipe.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "*recipeRepository.ListRecipes").
				Int64("user_id", ownerID).
				Msg("failed to scan recipe row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		recipes = append(recipes, recipe)
		recipeIDs = append(recipeIDs, recipe.ID)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*recipeRepository.ListRecipes").
			Int64("user_id", ownerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	if len(recipes) == 0 {
		return recipes, nil
	}

	tagsByRecipe, err := r.loadTags(ctx, r.db, ownerID, recipeIDs)
	if err != nil {
		return nil, err
	}

	for i := range recipes {
		recipes[i].Tags = tagsByRecipe[recipes[i].ID]
	}

	return recipes, nil
}

// GetRecipe retrieves a single recipe by (ownerID, recipeID) with its tag
// set attached.
//
// A recipe that does not exist and a recipe owned by a different user both
// yield [ErrRecipeNotFound]: the WHERE clause filters by owner, so the two
// cases cannot be told apart.
func (r *recipeRepository) GetRecipe(ctx context.Context, ownerID, recipeID int64) (models.Recipe, error) {
	recipe, err := r.getRecipeRow(ctx, r.db, ownerID, recipeID)
	if err != nil {
		return models.Recipe{}, err
	}

	tagsByRecipe, err := r.loadTags(ctx, r.db, ownerID, []int64{recipeID})
	if err != nil {
		return models.Recipe{}, err
	}
	recipe.Tags = tagsByRecipe[recipe.ID]

	return recipe, nil
}

// CreateRecipe persists a new recipe and, when tagNames is non-nil,
// reconciles the named tags and associates them with the recipe.
//
// The insert and the tag work run inside a single transaction so that an
// interrupted write never leaves a recipe without its intended tags.
// The recipe's UserID must be set by the caller; it is stored as-is and
// becomes immutable.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe models.Recipe, tagNames []string) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "*recipeRepository.CreateRecipe").
			Int64("user_id", recipe.UserID).
			Msg("failed to begin transaction")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.db.Builder().
		Insert(recipe.TableName()).
		Columns("user_id", "title", "description", "price", "time_minutes").
		Values(recipe.UserID, recipe.Title, recipe.Description, recipe.Price, recipe.TimeMinutes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.CreateRecipe").Msg("failed to build insert query")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if scanErr := tx.QueryRowContext(ctx, query, args...).Scan(&recipe.ID, &recipe.CreatedAt); scanErr != nil {
		log.Err(scanErr).
			Str("func", "*recipeRepository.CreateRecipe").
			Int64("user_id", recipe.UserID).
			Msg("error inserting recipe")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
	}

	if tagNames != nil {
		tags, reconcileErr := r.reconcileTags(ctx, tx, recipe.UserID, tagNames)
		if reconcileErr != nil {
			return models.Recipe{}, reconcileErr
		}

		if assocErr := r.replaceAssociations(ctx, tx, recipe.ID, tags); assocErr != nil {
			return models.Recipe{}, assocErr
		}

		recipe.Tags = tags
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "*recipeRepository.CreateRecipe").
			Int64("user_id", recipe.UserID).
			Msg("failed to commit transaction")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "*recipeRepository.CreateRecipe").
		Int64("user_id", recipe.UserID).
		Int64("recipe_id", recipe.ID).
		Int("tags_count", len(recipe.Tags)).
		Msg("recipe created")

	return recipe, nil
}

// UpdateRecipe applies a partial update to a recipe owned by ownerID.
//
// Scalar fields change only when non-nil. A non-nil update.Tags replaces the
// recipe's tag associations entirely (an empty slice clears them); a nil
// Tags leaves associations untouched. The whole operation is transactional.
//
// Returns [ErrRecipeNotFound] when the recipe does not exist or belongs to a
// different owner.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, ownerID, recipeID int64, update RecipeUpdate) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "*recipeRepository.UpdateRecipe").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("failed to begin transaction")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var recipe models.Recipe
	if update.HasFieldChanges() {
		recipe, err = r.updateRecipeRow(ctx, tx, ownerID, recipeID, update)
	} else {
		// tags-only or empty payload: still verify existence and ownership
		recipe, err = r.getRecipeRow(ctx, tx, ownerID, recipeID)
	}
	if err != nil {
		return models.Recipe{}, err
	}

	if update.Tags != nil {
		tags, reconcileErr := r.reconcileTags(ctx, tx, ownerID, *update.Tags)
		if reconcileErr != nil {
			return models.Recipe{}, reconcileErr
		}

		if assocErr := r.replaceAssociations(ctx, tx, recipe.ID, tags); assocErr != nil {
			return models.Recipe{}, assocErr
		}

		recipe.Tags = tags
	} else {
		tagsByRecipe, loadErr := r.loadTags(ctx, tx, ownerID, []int64{recipe.ID})
		if loadErr != nil {
			return models.Recipe{}, loadErr
		}
		recipe.Tags = tagsByRecipe[recipe.ID]
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "*recipeRepository.UpdateRecipe").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("failed to commit transaction")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return recipe, nil
}

// DeleteRecipe removes a recipe owned by ownerID. Association rows are
// removed by the recipe_tags cascade; the tag rows themselves are never
// touched, so tags shared with other recipes survive.
//
// Returns [ErrRecipeNotFound] when no row matches (ownerID, recipeID).
func (r *recipeRepository) DeleteRecipe(ctx context.Context, ownerID, recipeID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Delete(models.Recipe{}.TableName()).
		Where(sq.Eq{"id": recipeID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.DeleteRecipe").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*recipeRepository.DeleteRecipe").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("failed to execute delete query")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		log.Warn().
			Str("func", "*recipeRepository.DeleteRecipe").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("recipe not found")
		return ErrRecipeNotFound
	}

	log.Info().
		Str("func", "*recipeRepository.DeleteRecipe").
		Int64("user_id", ownerID).
		Int64("recipe_id", recipeID).
		Msg("recipe deleted")

	return nil
}

// getRecipeRow fetches a single recipe row filtered by owner, without tags.
func (r *recipeRepository) getRecipeRow(ctx context.Context, q dbtx, ownerID, recipeID int64) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select(recipeColumns...).
		From(models.Recipe{}.TableName()).
		Where(sq.Eq{"id": recipeID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.getRecipeRow").Msg("failed to build select query")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var recipe models.Recipe
	scanErr := q.QueryRowContext(ctx, query, args...).Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Price,
		&recipe.TimeMinutes,
		&recipe.CreatedAt,
	)
	if scanErr != nil {
		if isNoRows(scanErr) {
			return models.Recipe{}, ErrRecipeNotFound
		}
		log.Err(scanErr).
			Str("func", "*recipeRepository.getRecipeRow").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("error scanning recipe row")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return recipe, nil
}

// updateRecipeRow builds and executes the dynamic UPDATE for the scalar
// recipe columns and returns the updated row.
func (r *recipeRepository) updateRecipeRow(ctx context.Context, q dbtx, ownerID, recipeID int64, update RecipeUpdate) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	builder := r.db.Builder().
		Update(models.Recipe{}.TableName()).
		Where(sq.Eq{"id": recipeID, "user_id": ownerID}).
		Suffix("RETURNING " + strings.Join(recipeColumns, ", "))

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Description != nil {
		builder = builder.Set("description", *update.Description)
	}
	if update.Price != nil {
		builder = builder.Set("price", *update.Price)
	}
	if update.TimeMinutes != nil {
		builder = builder.Set("time_minutes", *update.TimeMinutes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.updateRecipeRow").Msg("failed to build update query")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var recipe models.Recipe
	scanErr := q.QueryRowContext(ctx, query, args...).Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Price,
		&recipe.TimeMinutes,
		&recipe.CreatedAt,
	)
	if scanErr != nil {
		if isNoRows(scanErr) {
			return models.Recipe{}, ErrRecipeNotFound
		}
		log.Err(scanErr).
			Str("func", "*recipeRepository.updateRecipeRow").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("failed to execute update query")
		return models.Recipe{}, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
	}

	return recipe, nil
}

// reconcileTags resolves each name to an existing or newly created tag owned
// by ownerID, using an upsert so that concurrent writers converge on a
// single (owner, name) row. Matching is case-sensitive and never reuses a
// same-named tag belonging to another user.
//
// Duplicate input names collapse to one resolved tag; the returned slice
// preserves first-occurrence order of the deduplicated input.
func (r *recipeRepository) reconcileTags(ctx context.Context, q dbtx, ownerID int64, names []string) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	seen := make(map[string]struct{}, len(names))
	tags := make([]models.Tag, 0, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		query, args, err := r.db.Builder().
			Insert(models.Tag{}.TableName()).
			Columns("user_id", "name").
			Values(ownerID, name).
			Suffix("ON CONFLICT (user_id, name) DO UPDATE SET name = excluded.name RETURNING id").
			ToSql()
		if err != nil {
			log.Err(err).Str("func", "*recipeRepository.reconcileTags").Msg("failed to build upsert query")
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		tag := models.Tag{UserID: ownerID, Name: name}
		if scanErr := q.QueryRowContext(ctx, query, args...).Scan(&tag.ID); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*recipeRepository.reconcileTags").
				Int64("user_id", ownerID).
				Str("name", name).
				Msg("failed to upsert tag")
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

// replaceAssociations makes the recipe's tag association set exactly the
// given tags. Only recipe_tags rows are written; tag rows removed from the
// set are never deleted.
func (r *recipeRepository) replaceAssociations(ctx context.Context, q dbtx, recipeID int64, tags []models.Tag) error {
	log := logger.FromContext(ctx)

	deleteQuery, deleteArgs, err := r.db.Builder().
		Delete("recipe_tags").
		Where(sq.Eq{"recipe_id": recipeID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.replaceAssociations").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, execErr := q.ExecContext(ctx, deleteQuery, deleteArgs...); execErr != nil {
		log.Err(execErr).
			Str("func", "*recipeRepository.replaceAssociations").
			Int64("recipe_id", recipeID).
			Msg("failed to clear tag associations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if len(tags) == 0 {
		return nil
	}

	insert := r.db.Builder().
		Insert("recipe_tags").
		Columns("recipe_id", "tag_id")
	for _, tag := range tags {
		insert = insert.Values(recipeID, tag.ID)
	}

	insertQuery, insertArgs, err := insert.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.replaceAssociations").Msg("failed to build insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, execErr := q.ExecContext(ctx, insertQuery, insertArgs...); execErr != nil {
		log.Err(execErr).
			Str("func", "*recipeRepository.replaceAssociations").
			Int64("recipe_id", recipeID).
			Int("tags_count", len(tags)).
			Msg("failed to insert tag associations")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// loadTags fetches the tag sets for the given recipes in one query and
// groups them by recipe, tags ordered by name within each recipe.
func (r *recipeRepository) loadTags(ctx context.Context, q dbtx, ownerID int64, recipeIDs []int64) (map[int64][]models.Tag, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select("rt.recipe_id", "t.id", "t.user_id", "t.name").
		From("recipe_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(sq.Eq{"t.user_id": ownerID, "rt.recipe_id": recipeIDs}).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*recipeRepository.loadTags").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*recipeRepository.loadTags").
			Int64("user_id", ownerID).
			Int("recipes_count", len(recipeIDs)).
			Msg("failed to execute query for loading tags")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tagsByRecipe := make(map[int64][]models.Tag, len(recipeIDs))

	for rows.Next() {
		var recipeID int64
		var tag models.Tag

		if scanErr := rows.Scan(&recipeID, &tag.ID, &tag.UserID, &tag.Name); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*recipeRepository.loadTags").
				Int64("user_id", ownerID).
				Msg("failed to scan tag row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		tagsByRecipe[recipeID] = append(tagsByRecipe[recipeID], tag)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*recipeRepository.loadTags").
			Int64("user_id", ownerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tagsByRecipe, nil
}
