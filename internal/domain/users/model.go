package users

import "time"

// User es una cuenta registrada. PasswordHash nunca sale por la API.
type User struct {
	ID int64

	Name         string
	Email        string
	PasswordHash string

	Phone string
	City  string
	State string

	// Nombre del archivo servido bajo /uploads.
	ProfilePhoto string

	CreatedAt time.Time
}
