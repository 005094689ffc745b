package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediapost/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	Username   string
	Email      string
	Password   string
	BcryptCost int
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Username:   "demo",
		Email:      "demo@mediapost.local",
		Password:   "demo1234",
		BcryptCost: bcrypt.DefaultCost,
	}
}

// SeedUser creates the demo account unless a user with the same email exists.
func SeedUser(ctx context.Context, db *gorm.DB, cfg SeedConfig) (*user.User, error) {
	var existing user.User
	err := db.WithContext(ctx).Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           uuid.New(),
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}
