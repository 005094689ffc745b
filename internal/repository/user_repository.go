package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediapost/internal/domain/user"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Returned by Create when a unique column is already taken. Both wrap ErrAlreadyExists.
var (
	ErrEmailTaken    = fmt.Errorf("email %w", mediapost_errors.ErrAlreadyExists)
	ErrUsernameTaken = fmt.Errorf("username %w", mediapost_errors.ErrAlreadyExists)
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).Create(u)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			switch {
			case constraintMentions(res.Error, "email"):
				return ErrEmailTaken
			case constraintMentions(res.Error, "username"):
				return ErrUsernameTaken
			}
			return mediapost_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *PostgresUserRepository) first(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, mediapost_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
