package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mediapost/config"
	"mediapost/internal/domain/user"
	"mediapost/internal/repository"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, &config.Config{
		JWTSecret:    "test-secret",
		JWTExpiresIn: 7 * 24 * time.Hour,
		BcryptCost:   bcrypt.MinCost,
	}, nil)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestAuthService(repo)
	ctx := context.Background()

	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user.User{}, mediapost_errors.ErrNotFound)
	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user.User{}, mediapost_errors.ErrNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil)

	res, err := svc.Register(ctx, RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)

	claims, err := svc.ParseAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	repo.AssertExpectations(t)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing username", RegisterInput{Email: "a@b.co", Password: "secret1"}, "Username, email and password are required"},
		{"missing email", RegisterInput{Username: "a", Password: "secret1"}, "Username, email and password are required"},
		{"bad email", RegisterInput{Username: "a", Email: "nope", Password: "secret1"}, "Invalid email address"},
		{"short password", RegisterInput{Username: "a", Email: "a@b.co", Password: "123"}, "Password must be at least 6 characters"},
		{"long password", RegisterInput{Username: "a", Email: "a@b.co", Password: strings.Repeat("p", 73)}, "Password must be at most 72 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			svc := newTestAuthService(repo)

			_, err := svc.Register(context.Background(), tt.in)

			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())
			assert.Equal(t, 400, mediapost_errors.HTTPStatus(err))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_RegisterDuplicates(t *testing.T) {
	t.Run("email taken", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := newTestAuthService(repo)
		repo.On("GetUserByEmail", mock.Anything, "a@b.co").Return(user.User{ID: uuid.New()}, nil)

		_, err := svc.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.co", Password: "secret1"})
		assert.Equal(t, "Email already registered", err.Error())
	})

	t.Run("username taken", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := newTestAuthService(repo)
		repo.On("GetUserByEmail", mock.Anything, "a@b.co").Return(user.User{}, mediapost_errors.ErrNotFound)
		repo.On("GetUserByUsername", mock.Anything, "a").Return(user.User{ID: uuid.New()}, nil)

		_, err := svc.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.co", Password: "secret1"})
		assert.Equal(t, "Username already taken", err.Error())
	})

	t.Run("insert race", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := newTestAuthService(repo)
		repo.On("GetUserByEmail", mock.Anything, "a@b.co").Return(user.User{}, mediapost_errors.ErrNotFound)
		repo.On("GetUserByUsername", mock.Anything, "a").Return(user.User{}, mediapost_errors.ErrNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrEmailTaken)

		_, err := svc.Register(context.Background(), RegisterInput{Username: "a", Email: "a@b.co", Password: "secret1"})
		assert.Equal(t, "Email already registered", err.Error())
		assert.True(t, errors.Is(err, mediapost_errors.ErrInvalidInput))
	})
}

func TestAuthService_Login(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestAuthService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").
		Return(user.User{ID: id, Username: "alice", Email: "alice@example.com", PasswordHash: string(hash)}, nil)
	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(user.User{}, mediapost_errors.ErrNotFound)

	res, err := svc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, id.String(), res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, 401, mediapost_errors.HTTPStatus(err))
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "secret1"})
	assert.Equal(t, 401, mediapost_errors.HTTPStatus(err))

	_, err = svc.Login(context.Background(), LoginInput{Email: "", Password: ""})
	assert.Equal(t, 400, mediapost_errors.HTTPStatus(err))
}

func TestAuthService_ParseAccessTokenRejects(t *testing.T) {
	svc := newTestAuthService(new(mockUserRepo))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredStr, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{UserID: uuid.NewString()})
	forgedStr, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", expiredStr, forgedStr} {
		_, err := svc.ParseAccessToken(tok)
		assert.Equal(t, 401, mediapost_errors.HTTPStatus(err))
	}
}

func TestAuthService_Me(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestAuthService(repo)
	id := uuid.New()
	missing := uuid.New()
	repo.On("GetUserByID", mock.Anything, id).Return(user.User{ID: id, Username: "alice", Email: "a@b.co"}, nil)
	repo.On("GetUserByID", mock.Anything, missing).Return(user.User{}, mediapost_errors.ErrNotFound)

	info, err := svc.Me(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice", info.Username)

	_, err = svc.Me(context.Background(), missing)
	assert.Equal(t, 404, mediapost_errors.HTTPStatus(err))
}

func TestUserContext(t *testing.T) {
	id := uuid.New()
	got, ok := UserIDFromContext(WithUserContext(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = UserIDFromContext(context.Background())
	assert.False(t, ok)
}
