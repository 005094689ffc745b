package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"mediapost/internal/domain/post"
	"mediapost/internal/domain/user"
	"mediapost/pkg/database"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.MigrateUp(db))

	require.NoError(t, db.Exec("TRUNCATE posts, users").Error)
	t.Cleanup(func() {
		_ = db.Exec("TRUNCATE posts, users").Error
		_ = database.Close(db)
	})
	return db
}

func TestPostRepository_CreateGetDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	p := &post.Post{Name: "n", Description: "d", FileID: "f1", FileURL: post.FileURLFor("f1")}
	require.NoError(t, repo.Create(ctx, p))
	require.NotEqual(t, uuid.Nil, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "/files/f1", got.FileURL)
	assert.Equal(t, "f1", got.BlobID())

	count, err := repo.DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.DeleteByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = repo.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, mediapost_errors.ErrNotFound))
}

func TestPostRepository_ListAllKeepsCreationOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, name := range []string{"first", "second", "third"} {
		p := &post.Post{Name: name, Description: "d", FileURL: post.FileURLFor(name)}
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
		time.Sleep(5 * time.Millisecond)
	}

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for i, p := range posts {
		assert.Equal(t, ids[i], p.ID)
	}
}

func TestUserRepository_UniqueColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &user.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &user.User{ID: uuid.New(), Username: "other", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = repo.Create(ctx, &user.User{ID: uuid.New(), Username: "alice", Email: "new@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
	assert.ErrorIs(t, err, mediapost_errors.ErrAlreadyExists)

	got, err := repo.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}
