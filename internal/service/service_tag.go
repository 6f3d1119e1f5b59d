package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/store"
	"github.com/mkarpenko/recipebox/models"
)

// tagService is the concrete implementation of TagService. Tags are created
// implicitly through recipe writes; this service covers listing, renaming
// and deleting them.
type tagService struct {
	tagRepository store.TagRepository
	logger        *logger.Logger
}

// NewTagService constructs a TagService wired to the given repository.
func NewTagService(tagRepository store.TagRepository, logger *logger.Logger) TagService {
	return &tagService{
		tagRepository: tagRepository,
		logger:        logger,
	}
}

// ListTags returns all tags owned by ownerID ordered by name descending.
func (s *tagService) ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error) {
	tags, err := s.tagRepository.ListTags(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("tag listing ended with error: %w", err)
	}

	return tags, nil
}

// RenameTag validates the new name and renames a tag owned by ownerID.
//
// Returns a *ValidationError when the name is blank or already taken by
// another of the owner's tags.
func (s *tagService) RenameTag(ctx context.Context, ownerID, tagID int64, request models.TagRenameRequest) (models.Tag, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(request.Name) == "" {
		validation := NewValidationError()
		validation.Add("name", "this field may not be blank")
		return models.Tag{}, validation
	}

	renamedTag, err := s.tagRepository.RenameTag(ctx, ownerID, tagID, request.Name)
	if err != nil {
		if errors.Is(err, store.ErrTagAlreadyExists) {
			log.Warn().
				Str("func", "*tagService.RenameTag").
				Int64("user_id", ownerID).
				Int64("tag_id", tagID).
				Msg("tag name already taken")
			taken := NewValidationError()
			taken.Add("name", "tag with this name already exists")
			return models.Tag{}, taken
		}
		log.Err(err).
			Str("func", "*tagService.RenameTag").
			Int64("user_id", ownerID).
			Int64("tag_id", tagID).
			Msg("tag rename ended with error")
		return models.Tag{}, fmt.Errorf("tag rename ended with error: %w", err)
	}

	return renamedTag, nil
}

// DeleteTag removes a tag owned by ownerID.
func (s *tagService) DeleteTag(ctx context.Context, ownerID, tagID int64) error {
	if err := s.tagRepository.DeleteTag(ctx, ownerID, tagID); err != nil {
		return fmt.Errorf("tag deletion ended with error: %w", err)
	}

	return nil
}
