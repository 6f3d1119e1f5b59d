package service

import (
	"context"

	"github.com/mkarpenko/recipebox/models"
)

type AuthService interface {
	Register(ctx context.Context, request models.RegisterRequest) (models.User, error)
	RegisterSuperuser(ctx context.Context, email, password string) (models.User, error)
	Authenticate(ctx context.Context, request models.CredentialsRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	Profile(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, request models.ProfileUpdateRequest) (models.User, error)
}

type RecipeService interface {
	ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, ownerID, recipeID int64) (models.Recipe, error)
	CreateRecipe(ctx context.Context, ownerID int64, request models.RecipeWriteRequest) (models.Recipe, error)
	UpdateRecipe(ctx context.Context, ownerID, recipeID int64, request models.RecipeWriteRequest) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, ownerID, recipeID int64) error
}

type TagService interface {
	ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error)
	RenameTag(ctx context.Context, ownerID, tagID int64, request models.TagRenameRequest) (models.Tag, error)
	DeleteTag(ctx context.Context, ownerID, tagID int64) error
}
