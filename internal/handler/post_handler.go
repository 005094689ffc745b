// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"mediapost/internal/domain/blob"
	"mediapost/internal/domain/post"
	"mediapost/internal/middleware"
	"mediapost/internal/services"
	"mediapost/internal/transport/httpdto"
	mediapost_errors "mediapost/pkg/errors"
	"mediapost/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultContentType = "application/octet-stream"

// PostService is the orchestration surface the post endpoints need.
type PostService interface {
	Upload(ctx context.Context, in services.UploadInput) (post.Post, error)
	List(ctx context.Context) ([]post.View, error)
	Delete(ctx context.Context, id string) (post.DeleteResult, error)
	GetFile(ctx context.Context, id string) (blob.Blob, error)
}

// PostHandler handles the post and file endpoints.
type PostHandler struct {
	service        PostService
	maxUploadBytes int64
	logger         *logger.Logger
}

func NewPostHandler(service PostService, maxUploadBytes int64, l *logger.Logger) *PostHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &PostHandler{service: service, maxUploadBytes: maxUploadBytes, logger: l}
}

// Upload handles POST /posts/upload (multipart: file, name, description).
func (h *PostHandler) Upload(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		if c.Request.ContentLength > h.maxUploadBytes {
			_ = c.Error(h.tooLarge())
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	file, err := h.readFile(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	name := c.PostForm("name")
	h.logger.Info(c.Request.Context(), "Upload request received",
		zap.String("name", name),
		zap.Bool("has_file", file != nil),
	)

	p, err := h.service.Upload(c.Request.Context(), services.UploadInput{
		File:        file,
		Name:        name,
		Description: c.PostForm("description"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse("Post created successfully", p, middleware.RequestID(c)))
}

// readFile returns nil without error when the request has no file part.
// A body that cannot be parsed as multipart is rejected.
func (h *PostHandler) readFile(c *gin.Context) (*blob.Upload, error) {
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, h.tooLarge()
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		}
		h.logger.Warn(c.Request.Context(), "Malformed multipart upload", zap.Error(err))
		return nil, mediapost_errors.NewValidationError("Invalid multipart form data")
	}

	data, err := readPart(header)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, h.tooLarge()
		}
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return &blob.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (h *PostHandler) tooLarge() error {
	return mediapost_errors.NewTooLargeError(fmt.Sprintf("File exceeds the %d byte upload limit", h.maxUploadBytes))
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// List handles GET /posts/ and returns the bare summary array.
func (h *PostHandler) List(c *gin.Context) {
	views, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewPostSummaries(views))
}

// Delete handles DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewMessageResponse(result.Message, middleware.RequestID(c)))
}

// File handles GET /files/:id and streams the stored bytes.
func (h *PostHandler) File(c *gin.Context) {
	b, err := h.service.GetFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	contentType := b.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	if disposition := mime.FormatMediaType("inline", map[string]string{"filename": b.Filename}); disposition != "" {
		c.Header("Content-Disposition", disposition)
	}
	c.Data(http.StatusOK, contentType, b.Data)
}
