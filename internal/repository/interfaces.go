package repository

import (
	"context"

	"github.com/google/uuid"

	"mediapost/internal/domain/post"
	"mediapost/internal/domain/user"
)

type PostRepository interface {
	Create(ctx context.Context, p *post.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (post.Post, error)
	// ListAll returns every post in creation order.
	ListAll(ctx context.Context) ([]post.Post, error)
	// DeleteByID reports how many rows were removed (0 or 1).
	DeleteByID(ctx context.Context, id uuid.UUID) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}
