package models

import "github.com/shopspring/decimal"

// TokenResponse is the body returned by POST /user/token/.
type TokenResponse struct {
	Token string `json:"token"`
}

// RecipeSummary is the reduced projection returned by the recipe list
// endpoint. It deliberately omits the description field.
//
// Summary and detail are two independent structs sharing a field subset
// rather than one embedding the other, so each endpoint's payload shape is
// visible at a glance.
type RecipeSummary struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	TimeMinutes int             `json:"time_minutes"`
	Tags        []Tag           `json:"tags"`
}

// RecipeDetail is the full projection returned by recipe detail, create and
// update endpoints.
type RecipeDetail struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	TimeMinutes int             `json:"time_minutes"`
	Tags        []Tag           `json:"tags"`
}

// NewRecipeSummary projects a Recipe into its list representation.
func NewRecipeSummary(r Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		Price:       r.Price,
		TimeMinutes: r.TimeMinutes,
		Tags:        tagsOrEmpty(r.Tags),
	}
}

// NewRecipeDetail projects a Recipe into its detail representation.
func NewRecipeDetail(r Recipe) RecipeDetail {
	return RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		TimeMinutes: r.TimeMinutes,
		Tags:        tagsOrEmpty(r.Tags),
	}
}

// tagsOrEmpty keeps the tags field serialized as [] instead of null.
func tagsOrEmpty(tags []Tag) []Tag {
	if tags == nil {
		return []Tag{}
	}
	return tags
}

// APIError is the structured error body returned for non-validation
// failures: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

// ValidationErrors maps field names to their error messages, matching the
// field-level detail contract of the API:
//
//	{"password": ["password is too short"]}
type ValidationErrors map[string][]string

// Add appends a message to the given field's error list.
func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}
