package models

// Post represents a blog post. AuthorID is optional and references an Author.
type Post struct {
	ID       int64  `json:"id" db:"id"`
	AuthorID *int64 `json:"author_id" db:"author_id"`
	Title    string `json:"title" db:"title"`
	Body     string `json:"body" db:"body"`
}

// TableName returns the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// ResourceID returns the database identifier
func (p Post) ResourceID() int64 {
	return p.ID
}

// PostInput is the request body for creating or replacing a post
type PostInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	Body     string `json:"body" validate:"required"`
	AuthorID *int64 `json:"author_id,omitempty" validate:"omitempty,gt=0,max=2147483647"`
}

// String is used in audit log lines; the body is left out
func (p PostInput) String() string {
	return "PostInput(title=" + p.Title + ")"
}
