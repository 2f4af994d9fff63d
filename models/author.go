package models

// Author represents a post author
type Author struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// TableName returns the table name for the Author model
func (Author) TableName() string {
	return "authors"
}

// ResourceID returns the database identifier
func (a Author) ResourceID() int64 {
	return a.ID
}

// AuthorInput is the request body for creating or replacing an author
type AuthorInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// String is used in audit log lines
func (a AuthorInput) String() string {
	return "AuthorInput(name=" + a.Name + ")"
}
