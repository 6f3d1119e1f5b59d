package store

import "github.com/mkarpenko/recipebox/internal/logger"

type Storages struct {
	UserRepository   UserRepository
	RecipeRepository RecipeRepository
	TagRepository    TagRepository
}

func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:   NewUserRepository(db, logger),
		RecipeRepository: NewRecipeRepository(db, logger),
		TagRepository:    NewTagRepository(db, logger),
	}
}
