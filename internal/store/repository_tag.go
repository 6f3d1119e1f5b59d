package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/models"
)

// tagRepository is the SQL-backed implementation of [TagRepository].
//
// Tags are only ever created through the recipe write path (see
// [recipeRepository.reconcileTags]); this repository covers the remaining
// list, rename and delete operations.
type tagRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTagRepository constructs a [TagRepository] backed by the provided
// database connection and logger.
func NewTagRepository(db *DB, logger *logger.Logger) TagRepository {
	logger.Debug().Msg("creating tag repository")
	return &tagRepository{
		db:     db,
		logger: logger,
	}
}

// ListTags returns every tag owned by ownerID ordered by name descending.
func (r *tagRepository) ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Select("id", "user_id", "name").
		From(models.Tag{}.TableName()).
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("name DESC").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tagRepository.ListTags").Msg("failed to build select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*tagRepository.ListTags").
			Int64("user_id", ownerID).
			Msg("failed to execute query for listing tags")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tags := make([]models.Tag, 0, 10)

	for rows.Next() {
		var tag models.Tag

		if scanErr := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); scanErr != nil {
			log.Err(scanErr).
				Str("func", "*tagRepository.ListTags").
				Int64("user_id", ownerID).
				Msg("failed to scan tag row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		tags = append(tags, tag)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "*tagRepository.ListTags").
			Int64("user_id", ownerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tags, nil
}

// RenameTag changes the name of a tag owned by ownerID and returns the
// updated row.
//
// Returns [ErrTagNotFound] when no row matches (ownerID, tagID) and
// [ErrTagAlreadyExists] when the owner already has a different tag carrying
// the new name.
func (r *tagRepository) RenameTag(ctx context.Context, ownerID, tagID int64, name string) (models.Tag, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Update(models.Tag{}.TableName()).
		Set("name", name).
		Where(sq.Eq{"id": tagID, "user_id": ownerID}).
		Suffix("RETURNING id, user_id, name").
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tagRepository.RenameTag").Msg("failed to build update query")
		return models.Tag{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var tag models.Tag
	scanErr := r.db.QueryRowContext(ctx, query, args...).Scan(&tag.ID, &tag.UserID, &tag.Name)
	if scanErr != nil {
		if isNoRows(scanErr) {
			log.Warn().
				Str("func", "*tagRepository.RenameTag").
				Int64("user_id", ownerID).
				Int64("tag_id", tagID).
				Msg("tag not found")
			return models.Tag{}, ErrTagNotFound
		}
		if r.db.IsUniqueViolation(scanErr) {
			log.Warn().
				Str("func", "*tagRepository.RenameTag").
				Int64("user_id", ownerID).
				Int64("tag_id", tagID).
				Str("name", name).
				Msg("tag name already taken")
			return models.Tag{}, ErrTagAlreadyExists
		}
		log.Err(scanErr).
			Str("func", "*tagRepository.RenameTag").
			Int64("user_id", ownerID).
			Int64("tag_id", tagID).
			Msg("failed to execute update query")
		return models.Tag{}, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
	}

	log.Info().
		Str("func", "*tagRepository.RenameTag").
		Int64("user_id", ownerID).
		Int64("tag_id", tagID).
		Msg("tag renamed")

	return tag, nil
}

// DeleteTag removes a tag owned by ownerID. Association rows in recipe_tags
// are removed by cascade; the recipes themselves are untouched.
//
// Returns [ErrTagNotFound] when no row matches (ownerID, tagID).
func (r *tagRepository) DeleteTag(ctx context.Context, ownerID, tagID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.Builder().
		Delete(models.Tag{}.TableName()).
		Where(sq.Eq{"id": tagID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*tagRepository.DeleteTag").Msg("failed to build delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*tagRepository.DeleteTag").
			Int64("user_id", ownerID).
			Int64("tag_id", tagID).
			Msg("failed to execute delete query")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		log.Warn().
			Str("func", "*tagRepository.DeleteTag").
			Int64("user_id", ownerID).
			Int64("tag_id", tagID).
			Msg("tag not found")
		return ErrTagNotFound
	}

	log.Info().
		Str("func", "*tagRepository.DeleteTag").
		Int64("user_id", ownerID).
		Int64("tag_id", tagID).
		Msg("tag deleted")

	return nil
}
