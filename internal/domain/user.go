package domain

import "time"

type User struct {
	ID           int64             `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	BirthDate    *time.Time        `json:"birth_date,omitempty"`
	Claims       map[string]string `json:"claims,omitempty"`
}
