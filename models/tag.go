package models

// Tag labels recipes and is owned by exactly one user. Tag names are unique
// per owner; distinct users may hold same-named tags independently.
type Tag struct {
	// ID is the server-assigned primary key.
	ID int64 `json:"id"`

	// UserID identifies the owner.
	UserID int64 `json:"-"`

	// Name is the tag label. Matching during reconciliation is
	// case-sensitive and scoped to the owner.
	Name string `json:"name"`
}

// TableName returns the name of the database table
// associated with the Tag model.
func (t Tag) TableName() string {
	return "tags"
}
