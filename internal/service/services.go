package service

import (
	"github.com/mkarpenko/recipebox/internal/config"
	"github.com/mkarpenko/recipebox/internal/logger"
	"github.com/mkarpenko/recipebox/internal/store"
)

type Services struct {
	AuthService   AuthService
	RecipeService RecipeService
	TagService    TagService
}

func NewServices(storages *store.Storages, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		AuthService:   NewAuthService(storages.UserRepository, cfg.App, logger),
		RecipeService: NewRecipeService(storages.RecipeRepository, logger),
		TagService:    NewTagService(storages.TagRepository, logger),
	}
}
