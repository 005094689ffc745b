package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediapost/config"
	"mediapost/internal/domain/user"
	"mediapost/internal/repository"
	mediapost_errors "mediapost/pkg/errors"
	"mediapost/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer inputs
	maxPasswordBytes = 72
)

type AuthService struct {
	userRepo   repository.UserRepository
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	validate   *validator.Validate
	logger     *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, l *logger.Logger) *AuthService {
	if l == nil {
		l = logger.Nop()
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.JWTExpiresIn,
		bcryptCost: cost,
		validate:   validator.New(),
		logger:     l,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResult struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}

type AccessClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := s.validateRegister(in); err != nil {
		return AuthResult{}, err
	}

	if err := s.ensureIdentityAvailable(ctx, in); err != nil {
		return AuthResult{}, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now().UTC()
	newUser := &user.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return AuthResult{}, mediapost_errors.NewValidationError("Email already registered")
		case errors.Is(err, repository.ErrUsernameTaken):
			return AuthResult{}, mediapost_errors.NewValidationError("Username already taken")
		}
		s.logger.Error(ctx, "Error creating user", zap.String("email", in.Email), zap.Error(err))
		return AuthResult{}, err
	}

	token, err := s.newAccessToken(newUser.ID)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info(ctx, "User registered", zap.String("user_id", newUser.ID.String()))
	return AuthResult{User: toUserInfo(*newUser), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthResult{}, mediapost_errors.NewValidationError("Email and password are required")
	}

	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mediapost_errors.ErrNotFound) {
			return AuthResult{}, mediapost_errors.NewUnauthorizedError("Invalid email or password")
		}
		return AuthResult{}, err
	}

	if err := comparePassword(u.PasswordHash, in.Password); err != nil {
		return AuthResult{}, mediapost_errors.NewUnauthorizedError("Invalid email or password")
	}

	token, err := s.newAccessToken(u.ID)
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info(ctx, "User logged in", zap.String("user_id", u.ID.String()))
	return AuthResult{User: toUserInfo(u), Token: token}, nil
}

// Me returns the profile of an authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (UserInfo, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mediapost_errors.ErrNotFound) {
			return UserInfo{}, mediapost_errors.NewNotFoundError("User not found")
		}
		return UserInfo{}, err
	}
	return toUserInfo(u), nil
}

func (s *AuthService) ParseAccessToken(tokenStr string) (*AccessClaims, error) {
	if tokenStr == "" {
		return nil, mediapost_errors.NewUnauthorizedError("Invalid token")
	}
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, mediapost_errors.NewUnauthorizedError("Invalid token")
	}
	return claims, nil
}

func (s *AuthService) newAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) validateRegister(in RegisterInput) error {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return mediapost_errors.NewValidationError("Username, email and password are required")
	}
	if err := s.validate.Var(in.Email, "email"); err != nil {
		return mediapost_errors.NewValidationError("Invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return mediapost_errors.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(in.Password) > maxPasswordBytes {
		return mediapost_errors.NewValidationError(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}
	return nil
}

func (s *AuthService) ensureIdentityAvailable(ctx context.Context, in RegisterInput) error {
	if _, err := s.userRepo.GetUserByEmail(ctx, in.Email); err == nil {
		return mediapost_errors.NewValidationError("Email already registered")
	} else if !errors.Is(err, mediapost_errors.ErrNotFound) {
		return err
	}

	if _, err := s.userRepo.GetUserByUsername(ctx, in.Username); err == nil {
		return mediapost_errors.NewValidationError("Username already taken")
	} else if !errors.Is(err, mediapost_errors.ErrNotFound) {
		return err
	}
	return nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func toUserInfo(u user.User) UserInfo {
	return UserInfo{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
	}
}

// WithUserContext stores the authenticated user id on ctx.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	raw, ok := ctx.Value(logger.UserIdKey).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
