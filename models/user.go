package models

// User represents an application user
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// ResourceID returns the database identifier
func (u User) ResourceID() int64 {
	return u.ID
}

// UserInput is the request body for creating or replacing a user
type UserInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

// String is used in audit log lines; the email is left out
func (u UserInput) String() string {
	return "UserInput(username=" + u.Username + ")"
}
