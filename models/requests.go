package models

import "github.com/shopspring/decimal"

// RegisterRequest is the payload accepted by POST /user/create/.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// CredentialsRequest is the payload accepted by POST /user/token/.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest is the partial-update payload accepted by
// PATCH /user/me/. Nil fields are left untouched; a supplied password is
// re-hashed before storage.
type ProfileUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// TagRef carries a tag by name inside recipe payloads: {"name": "Savory"}.
type TagRef struct {
	Name string `json:"name"`
}

// RecipeWriteRequest is the payload accepted by recipe create and update
// endpoints. All fields are pointers so that a partial update (PATCH) can
// distinguish "absent" from "set to zero value".
//
// Tags follows the full-replacement contract: a nil pointer means the tag
// associations are left untouched, while a non-nil pointer (even to an empty
// slice) replaces the recipe's tag set entirely.
//
// Any owner/user field supplied by the client is deliberately not represented
// here: ownership is resolved from the authenticated request and is immutable.
type RecipeWriteRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	TimeMinutes *int             `json:"time_minutes"`
	Tags        *[]TagRef        `json:"tags"`
}

// TagNames flattens the Tags field into a plain name slice.
// Returns nil when the tags key was absent from the payload.
func (r RecipeWriteRequest) TagNames() []string {
	if r.Tags == nil {
		return nil
	}

	names := make([]string, 0, len(*r.Tags))
	for _, ref := range *r.Tags {
		names = append(names, ref.Name)
	}
	return names
}

// TagRenameRequest is the payload accepted by PATCH /recipe/tags/{id}/.
type TagRenameRequest struct {
	Name string `json:"name"`
}
