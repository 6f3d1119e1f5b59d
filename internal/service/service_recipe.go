package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/models"
)

// recipeService is the concrete implementation of RecipeService. It owns
// payload validation and delegates persistence to a RecipeRepository; the
// ownerID threaded through every call comes from the authenticated request,
// never from the payload.
type recipeService struct {
	recipeRepository store.RecipeRepository
	logger           *logger.Logger
}

// NewRecipeService constructs a RecipeService wired to the given repository.
func NewRecipeService(recipeRepository store.RecipeRepository, logger *logger.Logger) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		logger:           logger,
	}
}

// ListRecipes returns all recipes owned by ownerID, newest first.
func (s *recipeService) ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error) {
	recipes, err := s.recipeRepository.ListRecipes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("recipe listing ended with error: %w", err)
	}

	return recipes, nil
}

// GetRecipe returns a single recipe owned by ownerID.
func (s *recipeService) GetRecipe(ctx context.Context, ownerID, recipeID int64) (models.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipe(ctx, ownerID, recipeID)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("recipe retrieval ended with error: %w", err)
	}

	return recipe, nil
}

// CreateRecipe validates the payload and persists a new recipe owned by
// ownerID. Title, price and time_minutes are required; description defaults
// to the empty string and tags default to none.
//
// Returns a *ValidationError with per-field messages on a rejected payload.
func (s *recipeService) CreateRecipe(ctx context.Context, ownerID int64, request models.RecipeWriteRequest) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	validation := NewValidationError()
	requireRecipeFields(validation, request)
	checkRecipeFields(validation, request)
	if !validation.Empty() {
		log.Warn().
			Str("func", "*recipeService.CreateRecipe").
			Int64("user_id", ownerID).
			Msg("recipe payload rejected")
		return models.Recipe{}, validation
	}

	recipe := models.Recipe{
		UserID:      ownerID,
		Title:       *request.Title,
		Price:       *request.Price,
		TimeMinutes: *request.TimeMinutes,
	}
	if request.Description != nil {
		recipe.Description = *request.Description
	}

	createdRecipe, err := s.recipeRepository.CreateRecipe(ctx, recipe, request.TagNames())
	if err != nil {
		log.Err(err).
			Str("func", "*recipeService.CreateRecipe").
			Int64("user_id", ownerID).
			Msg("recipe creation ended with error")
		return models.Recipe{}, fmt.Errorf("recipe creation ended with error: %w", err)
	}

	return createdRecipe, nil
}

// UpdateRecipe validates the supplied fields and applies a partial update to
// a recipe owned by ownerID. Absent fields are left untouched; a supplied
// tags list replaces the recipe's tag set entirely, even when empty.
func (s *recipeService) UpdateRecipe(ctx context.Context, ownerID, recipeID int64, request models.RecipeWriteRequest) (models.Recipe, error) {
	log := logger.FromContext(ctx)

	validation := NewValidationError()
	checkRecipeFields(validation, request)
	if !validation.Empty() {
		log.Warn().
			Str("func", "*recipeService.UpdateRecipe").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("recipe payload rejected")
		return models.Recipe{}, validation
	}

	update := store.RecipeUpdate{
		Title:       request.Title,
		Description: request.Description,
		Price:       request.Price,
		TimeMinutes: request.TimeMinutes,
	}
	if request.Tags != nil {
		names := request.TagNames()
		update.Tags = &names
	}

	updatedRecipe, err := s.recipeRepository.UpdateRecipe(ctx, ownerID, recipeID, update)
	if err != nil {
		log.Err(err).
			Str("func", "*recipeService.UpdateRecipe").
			Int64("user_id", ownerID).
			Int64("recipe_id", recipeID).
			Msg("recipe update ended with error")
		return models.Recipe{}, fmt.Errorf("recipe update ended with error: %w", err)
	}

	return updatedRecipe, nil
}

// DeleteRecipe removes a recipe owned by ownerID.
func (s *recipeService) DeleteRecipe(ctx context.Context, ownerID, recipeID int64) error {
	if err := s.recipeRepository.DeleteRecipe(ctx, ownerID, recipeID); err != nil {
		return fmt.Errorf("recipe deletion ended with error: %w", err)
	}

	return nil
}

// requireRecipeFields records a message for every required field missing
// from a create payload.
func requireRecipeFields(validation *ValidationError, request models.RecipeWriteRequest) {
	if request.Title == nil {
		validation.Add("title", "this field is required")
	}
	if request.Price == nil {
		validation.Add("price", "this field is required")
	}
	if request.TimeMinutes == nil {
		validation.Add("time_minutes", "this field is required")
	}
}

// checkRecipeFields validates only the fields present in the payload, so it
// applies to full and partial writes alike.
func checkRecipeFields(validation *ValidationError, request models.RecipeWriteRequest) {
	if request.Title != nil && strings.TrimSpace(*request.Title) == "" {
		validation.Add("title", "this field may not be blank")
	}
	if request.Price != nil && request.Price.IsNegative() {
		validation.Add("price", "ensure this value is greater than or equal to 0")
	}
	if request.TimeMinutes != nil && *request.TimeMinutes < 0 {
		validation.Add("time_minutes", "ensure this value is greater than or equal to 0")
	}
	if request.Tags != nil {
		for _, ref := range *request.Tags {
			if strings.TrimSpace(ref.Name) == "" {
				validation.Add("tags", "tag name may not be blank")
				break
			}
		}
	}
}
