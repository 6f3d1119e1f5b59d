package store

import (
	"context"

	"github.com/mkarpenko/recipebox/models"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_repository_mock.go -package=mock

// UserRepository is the data-access contract for user accounts.
//
// Lookup methods return [ErrNoUserWasFound] on an empty result;
// CreateUser returns [ErrEmailAlreadyExists] on a duplicate email.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	UpdateUser(ctx context.Context, userID int64, update UserUpdate) (models.User, error)
	TouchLastLogin(ctx context.Context, userID int64) error
}

// RecipeRepository is the data-access contract for recipes and their tag
// associations. Every method takes the owner's identifier explicitly and
// filters all reads and writes by it; [ErrRecipeNotFound] covers both a
// missing recipe and a recipe owned by someone else.
type RecipeRepository interface {
	ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, ownerID, recipeID int64) (models.Recipe, error)

	// CreateRecipe persists the recipe and, when tagNames is non-nil,
	// reconciles and associates the named tags in the same transaction.
	CreateRecipe(ctx context.Context, recipe models.Recipe, tagNames []string) (models.Recipe, error)

	// UpdateRecipe applies the non-nil fields of update. A non-nil Tags
	// slice (even empty) replaces the recipe's tag associations entirely;
	// a nil Tags leaves them untouched.
	UpdateRecipe(ctx context.Context, ownerID, recipeID int64, update RecipeUpdate) (models.Recipe, error)

	DeleteRecipe(ctx context.Context, ownerID, recipeID int64) error
}

// TagRepository is the data-access contract for the standalone tag endpoints
// (listing, renaming, deleting). Creation happens only through recipe writes.
type TagRepository interface {
	ListTags(ctx context.Context, ownerID int64) ([]models.Tag, error)
	RenameTag(ctx context.Context, ownerID, tagID int64, name string) (models.Tag, error)
	DeleteTag(ctx context.Context, ownerID, tagID int64) error
}

// UserUpdate carries the partial field set for a profile update.
// Nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
}

// RecipeUpdate carries the partial field set for a recipe update.
// Nil fields are left untouched. Tags is a pointer so that "absent" and
// "replace with the empty set" remain distinguishable.
type RecipeUpdate struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	TimeMinutes *int
	Tags        *[]string
}

// HasFieldChanges reports whether any scalar recipe column is updated.
func (u RecipeUpdate) HasFieldChanges() bool {
	return u.Title != nil || u.Description != nil || u.Price != nil || u.TimeMinutes != nil
}
