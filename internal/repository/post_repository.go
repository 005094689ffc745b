package repository

import (
	"context"
	"errors"
	"time"

	"mediapost/internal/domain/post"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresPostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) Create(ctx context.Context, p *post.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.AddedDate.IsZero() {
		p.AddedDate = now
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	res := r.db.WithContext(ctx).Create(p)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return mediapost_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	var p post.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post.Post{}, mediapost_errors.ErrNotFound
		}
		return post.Post{}, err
	}
	return p, nil
}

func (r *PostgresPostRepository) ListAll(ctx context.Context) ([]post.Post, error) {
	var posts []post.Post
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepository) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&post.Post{}, "id = ?", id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
