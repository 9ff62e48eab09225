package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	repository "libraryapi/internal/repository/iface"
)

type Credentials struct {
	Email    string `json:"email" binding:"required,email,max=256"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type UserUpdate struct {
	BirthDate *time.Time `json:"birthDate"`
}

type UserService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	logger logger.Logger
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenIssuer, log logger.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: log.With(logger.String("component", "user_service")),
	}
}

func (s *UserService) issue(user *domain.User) (auth.Token, error) {
	return s.tokens.Issue(strconv.FormatInt(user.ID, 10), user.Email, user.Claims)
}

// Register creates the account and signs the new user in. A taken email is
// reported as domain.ErrConflict.
func (s *UserService) Register(ctx context.Context, in Credentials) (auth.Token, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return auth.Token{}, err
	}

	user := &domain.User{Email: in.Email, PasswordHash: hash, Claims: map[string]string{}}
	if err := s.users.Create(ctx, user); err != nil {
		return auth.Token{}, err
	}

	s.logger.Info("user registered", logger.Int64("user_id", user.ID))
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, in Credentials) (auth.Token, error) {
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return auth.Token{}, ErrIncorrectLogin
		}
		return auth.Token{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		s.logger.Debug("password mismatch", logger.Int64("user_id", user.ID))
		return auth.Token{}, ErrIncorrectLogin
	}

	return s.issue(user)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) current(ctx context.Context, caller auth.Identity) (*domain.User, error) {
	id, err := strconv.ParseInt(caller.UserID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject %q", ErrUserNotFound, caller.UserID)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, caller auth.Identity, in UserUpdate) error {
	user, err := s.current(ctx, caller)
	if err != nil {
		return err
	}

	if err := s.users.UpdateBirthDate(ctx, user.ID, in.BirthDate); err != nil {
		return notFound(err, ErrUserNotFound)
	}
	return nil
}

// RenewToken issues a fresh token carrying the caller's current claims.
func (s *UserService) RenewToken(ctx context.Context, caller auth.Identity) (auth.Token, error) {
	user, err := s.current(ctx, caller)
	if err != nil {
		return auth.Token{}, err
	}
	return s.issue(user)
}

func (s *UserService) SetAdmin(ctx context.Context, email string, admin bool) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if admin {
		err = s.users.SetClaim(ctx, user.ID, auth.AdminClaim, "true")
	} else {
		err = s.users.RemoveClaim(ctx, user.ID, auth.AdminClaim)
	}
	if err != nil {
		return err
	}

	s.logger.Info("admin claim changed",
		logger.Int64("user_id", user.ID),
		logger.Bool("admin", admin))
	return nil
}
