package models

// Resource is implemented by every entity served through the generic CRUD
// handlers. IDs are assigned by the database.
type Resource interface {
	ResourceID() int64
}
