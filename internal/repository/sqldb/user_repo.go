package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libraryapi/internal/domain"
	"libraryapi/internal/logger"
	repository "libraryapi/internal/repository/iface"
)

type userRepository struct {
	db     *DB
	logger logger.Logger
}

// NewUserRepository creates a SQL user repository
func NewUserRepository(db *DB, log logger.Logger) repository.UserRepository {
	return &userRepository{
		db:     db,
		logger: log.With(logger.String("component", "user_repository")),
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.inTx(ctx, func(c conn) error {
		var birth sql.NullTime
		if user.BirthDate != nil {
			birth = sql.NullTime{Time: user.BirthDate.UTC(), Valid: true}
		}

		if err := c.queryRow(ctx,
			"INSERT INTO users (email, password_hash, birth_date) VALUES (?, ?, ?) RETURNING id",
			user.Email, user.PasswordHash, birth,
		).Scan(&user.ID); err != nil {
			return err
		}

		for name, value := range user.Claims {
			if err := upsertClaim(ctx, c, user.ID, name, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user %s: %w", user.Email, domain.ErrConflict)
		}
		r.logger.Error("failed to create user", logger.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	c := r.db.conn()

	var (
		u     domain.User
		birth sql.NullTime
	)
	err := c.queryRow(ctx, "SELECT id, email, password_hash, birth_date FROM users WHERE "+where, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &birth)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user", logger.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if birth.Valid {
		t := birth.Time
		u.BirthDate = &t
	}

	claims, err := r.claims(ctx, c, u.ID)
	if err != nil {
		return nil, err
	}
	u.Claims = claims

	return &u, nil
}

func (r *userRepository) claims(ctx context.Context, c conn, userID int64) (map[string]string, error) {
	rows, err := c.query(ctx, "SELECT claim_type, claim_value FROM user_claims WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()

	claims := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims[name] = value
	}

	return claims, rows.Err()
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.conn().query(ctx, "SELECT id, email, birth_date FROM users ORDER BY email, id")
	if err != nil {
		r.logger.Error("failed to list users", logger.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var (
			u     domain.User
			birth sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Email, &birth); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if birth.Valid {
			t := birth.Time
			u.BirthDate = &t
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

func (r *userRepository) UpdateBirthDate(ctx context.Context, id int64, birthDate *time.Time) error {
	var birth sql.NullTime
	if birthDate != nil {
		birth = sql.NullTime{Time: birthDate.UTC(), Valid: true}
	}

	res, err := r.db.conn().exec(ctx, "UPDATE users SET birth_date = ? WHERE id = ?", birth, id)
	if err != nil {
		r.logger.Error("failed to update user", logger.Int64("user_id", id), logger.Error(err))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return affected(res, fmt.Errorf("user %d: %w", id, domain.ErrNotFound))
}

func upsertClaim(ctx context.Context, c conn, userID int64, name, value string) error {
	_, err := c.exec(ctx,
		"INSERT INTO user_claims (user_id, claim_type, claim_value) VALUES (?, ?, ?) "+
			"ON CONFLICT (user_id, claim_type) DO UPDATE SET claim_value = excluded.claim_value",
		userID, name, value)
	return err
}

func (r *userRepository) SetClaim(ctx context.Context, userID int64, name, value string) error {
	if err := upsertClaim(ctx, r.db.conn(), userID, name, value); err != nil {
		r.logger.Error("failed to set claim",
			logger.Int64("user_id", userID),
			logger.String("claim", name),
			logger.Error(err))
		return fmt.Errorf("failed to set claim: %w", err)
	}
	return nil
}

func (r *userRepository) RemoveClaim(ctx context.Context, userID int64, name string) error {
	if _, err := r.db.conn().exec(ctx, "DELETE FROM user_claims WHERE user_id = ? AND claim_type = ?", userID, name); err != nil {
		return fmt.Errorf("failed to remove claim: %w", err)
	}
	return nil
}
