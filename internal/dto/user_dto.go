package dto

import (
	"time"

	"libraryapi/internal/domain"
)

type UserDTO struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	IsAdmin   bool       `json:"isAdmin"`
}

// EditClaimRequest names the user whose admin claim changes.
type EditClaimRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func NewUserDTO(u *domain.User, adminClaim string) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		BirthDate: u.BirthDate,
		IsAdmin:   u.Claims[adminClaim] == "true",
	}
}
