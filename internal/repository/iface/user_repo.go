package repository

import (
	"context"
	"time"

	"libraryapi/internal/domain"
)

// UserRepository defines operations for users and their claims
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateBirthDate(ctx context.Context, id int64, birthDate *time.Time) error
	SetClaim(ctx context.Context, userID int64, name, value string) error
	RemoveClaim(ctx context.Context, userID int64, name string) error
}
