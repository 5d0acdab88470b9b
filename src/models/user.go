package models

import "time"

// User represents a directory account, either self-registered or created by
// an admin. Admin-created users have an empty password hash until a
// temporary password is issued.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Surname      string    `json:"surname"`
	Contact      string    `json:"contact"`
	Email        string    `json:"email"`
	Area         string    `json:"area"`
	PasswordHash string    `json:"-"` // never expose
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
