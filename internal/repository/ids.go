package repository

import "github.com/google/uuid"

// newID returns a fresh UUID string used as a primary key.
func newID() string {
	return uuid.New().String()
}
