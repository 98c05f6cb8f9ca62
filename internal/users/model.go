package users

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// User is a directory entry for an authenticated subject. The id is the
// token subject; email is kept current on every authenticated request.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
