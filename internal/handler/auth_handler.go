package handler

import (
	"context"
	"net/http"

	"mediapost/internal/middleware"
	"mediapost/internal/services"
	"mediapost/internal/transport/httpdto"
	mediapost_errors "mediapost/pkg/errors"
	"mediapost/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (services.AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (services.UserInfo, error)
}

// AuthHandler handles authentication HTTP endpoints.
type AuthHandler struct {
	service AuthService
	logger  *logger.Logger
}

func NewAuthHandler(service AuthService, l *logger.Logger) *AuthHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &AuthHandler{service: service, logger: l}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req httpdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(mediapost_errors.NewValidationError("Invalid request body"))
		return
	}
	h.logger.Info(c.Request.Context(), "Registration request received",
		zap.String("username", req.Username),
		zap.String("email", req.Email),
	)

	res, err := h.service.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse("User registered successfully", res, middleware.RequestID(c)))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req httpdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(mediapost_errors.NewValidationError("Invalid request body"))
		return
	}
	h.logger.Info(c.Request.Context(), "Login request received", zap.String("email", req.Email))

	res, err := h.service.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse("Login successful", res, middleware.RequestID(c)))
}

// Me handles GET /auth/me behind AuthMiddleware.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		_ = c.Error(mediapost_errors.NewUnauthorizedError("Authentication required"))
		return
	}

	info, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, info)
}
