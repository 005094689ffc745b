package services

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"mediapost/internal/domain/blob"
	"mediapost/internal/domain/post"
	"mediapost/internal/events"
	"mediapost/internal/metrics"
	"mediapost/internal/repository"
	"mediapost/internal/storage"
	mediapost_errors "mediapost/pkg/errors"
	"mediapost/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	opUpload = "upload"
	opList   = "list"
	opDelete = "delete"
	opFile   = "file"

	defaultListConcurrency = 8

	msgPostDeleted = "Post and file deleted successfully"
)

// PostService sequences writes and deletes across the record store and the
// blob store and announces lifecycle events. Cross-store consistency is
// best-effort: a blob whose record insert fails is left behind, and a post
// whose blob cannot be removed is still deleted.
type PostService struct {
	posts           repository.PostRepository
	blobs           storage.BlobStore
	events          events.Publisher
	metrics         metrics.Metrics
	logger          *logger.Logger
	listConcurrency int
}

func NewPostService(posts repository.PostRepository, blobs storage.BlobStore, publisher events.Publisher, m metrics.Metrics, l *logger.Logger, listConcurrency int) *PostService {
	if m == nil {
		m = metrics.Noop{}
	}
	if l == nil {
		l = logger.Nop()
	}
	if listConcurrency <= 0 {
		listConcurrency = defaultListConcurrency
	}
	return &PostService{
		posts:           posts,
		blobs:           blobs,
		events:          publisher,
		metrics:         m,
		logger:          l,
		listConcurrency: listConcurrency,
	}
}

type UploadInput struct {
	// File is nil when the request carried no file part.
	File        *blob.Upload
	Name        string
	Description string
}

// Upload stores the file, then the post that references it, then emits post.created.
func (s *PostService) Upload(ctx context.Context, in UploadInput) (post.Post, error) {
	requestID := logger.RequestIDFromContext(ctx)

	if in.File == nil {
		return post.Post{}, s.fail(ctx, opUpload, mediapost_errors.NewValidationError("No file provided"))
	}
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" {
		return post.Post{}, s.fail(ctx, opUpload, mediapost_errors.NewValidationError("Name and description are required"))
	}

	s.logger.Info(ctx, "Starting media upload",
		zap.String("filename", in.File.Filename),
		zap.Int("size", len(in.File.Data)),
		zap.String("content_type", in.File.ContentType),
	)

	blobID, err := s.blobs.Save(ctx, *in.File)
	if err != nil {
		return post.Post{}, s.fail(ctx, opUpload, err, zap.String("filename", in.File.Filename))
	}
	s.logger.Info(ctx, "File saved to blob store", zap.String("file_id", blobID))

	s.events.Publish(ctx, events.LifecycleEvent{
		Kind:      events.KindFileUploaded,
		FileID:    blobID,
		Name:      in.File.Filename,
		RequestID: requestID,
	})

	p := &post.Post{
		Name:        name,
		Description: description,
		FileID:      blobID,
		FileURL:     post.FileURLFor(blobID),
	}
	if err := s.posts.Create(ctx, p); err != nil {
		// the blob stays behind; nothing references it
		return post.Post{}, s.fail(ctx, opUpload, err, zap.String("file_id", blobID), zap.Bool("orphaned_blob", true))
	}
	s.logger.Info(ctx, "Post saved to database", zap.String("post_id", p.ID.String()))

	s.events.Publish(ctx, events.LifecycleEvent{
		Kind:      events.KindPostCreated,
		PostID:    p.ID.String(),
		FileID:    blobID,
		Name:      name,
		RequestID: requestID,
	})

	s.metrics.IncPostOperation(opUpload, "success")
	s.logger.Info(ctx, "Media upload completed successfully", zap.String("post_id", p.ID.String()))
	return *p, nil
}

// List returns every post in record order, each joined with its blob when the
// blob can be read. A post whose blob is missing or unreadable is returned
// without file data.
func (s *PostService) List(ctx context.Context) ([]post.View, error) {
	s.logger.Info(ctx, "Fetching all posts")

	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, opList, err)
	}
	s.logger.Info(ctx, "Posts retrieved from database", zap.Int("count", len(posts)))

	views := make([]post.View, len(posts))
	var g errgroup.Group
	g.SetLimit(s.listConcurrency)
	for i := range posts {
		g.Go(func() error {
			views[i] = s.withFile(ctx, posts[i])
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, s.fail(ctx, opList, err)
	}

	s.metrics.IncPostOperation(opList, "success")
	s.logger.Info(ctx, "Posts with files processed", zap.Int("total_posts", len(views)))
	return views, nil
}

func (s *PostService) withFile(ctx context.Context, p post.Post) post.View {
	view := post.View{Post: p}

	blobID := p.BlobID()
	if blobID == "" {
		s.logger.Warn(ctx, "Post has no file reference", zap.String("post_id", p.ID.String()))
		return view
	}

	b, err := s.blobs.Get(ctx, blobID)
	if err != nil {
		s.metrics.IncBlobFallback(opList)
		s.logger.Warn(ctx, "Error fetching file for post",
			zap.String("post_id", p.ID.String()),
			zap.String("file_id", blobID),
			zap.Error(err),
		)
		return view
	}

	url := p.FileURL
	if url == "" {
		url = post.FileURLFor(blobID)
	}
	view.File = &post.FileView{
		ID:          b.ID,
		Filename:    b.Filename,
		ContentType: b.ContentType,
		Data:        base64.StdEncoding.EncodeToString(b.Data),
		URL:         url,
	}
	return view
}

// Delete removes the post and, best-effort, its blob. Only the record delete
// decides success; a blob that cannot be removed is reported through the
// outcome and the post.deleted event.
func (s *PostService) Delete(ctx context.Context, id string) (post.DeleteResult, error) {
	requestID := logger.RequestIDFromContext(ctx)
	s.logger.Info(ctx, "Starting post deletion", zap.String("post_id", id))

	postID, err := uuid.Parse(id)
	if err != nil {
		return post.DeleteResult{}, s.deleteFailed(ctx, id, mediapost_errors.NewNotFoundError("Post not found"))
	}

	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, mediapost_errors.ErrNotFound) {
			err = mediapost_errors.NewNotFoundError("Post not found")
		}
		return post.DeleteResult{}, s.deleteFailed(ctx, id, err)
	}

	blobID := p.BlobID()
	outcome := post.OutcomeDeletedWithoutBlob
	var reason string
	if blobID != "" {
		err := s.blobs.Delete(ctx, blobID)
		switch {
		case err == nil:
			outcome = post.OutcomeDeleted
			s.logger.Info(ctx, "File deleted successfully", zap.String("file_id", blobID))
		case errors.Is(err, mediapost_errors.ErrNotFound):
			s.logger.Warn(ctx, "File already missing", zap.String("file_id", blobID))
		default:
			outcome = post.OutcomeDeletedOrphanedBlob
			reason = "blob cleanup failed: " + err.Error()
			s.metrics.IncBlobFallback(opDelete)
			s.logger.Error(ctx, "Error deleting file",
				zap.String("post_id", id),
				zap.String("file_id", blobID),
				zap.Error(err),
			)
		}
	}

	count, err := s.posts.DeleteByID(ctx, postID)
	if err != nil {
		return post.DeleteResult{}, s.deleteFailed(ctx, id, err)
	}
	if count == 0 {
		// lost a race with a concurrent delete
		return post.DeleteResult{}, s.deleteFailed(ctx, id, mediapost_errors.NewNotFoundError("Post not found"))
	}

	s.events.Publish(ctx, events.LifecycleEvent{
		Kind:      events.KindPostDeleted,
		PostID:    id,
		FileID:    blobID,
		Reason:    reason,
		RequestID: requestID,
	})

	s.metrics.IncPostOperation(opDelete, string(outcome))
	s.logger.Info(ctx, "Post deletion completed",
		zap.String("post_id", id),
		zap.String("outcome", string(outcome)),
	)

	return post.DeleteResult{
		PostID:  postID,
		FileID:  blobID,
		Outcome: outcome,
		Message: msgPostDeleted,
	}, nil
}

// GetFile reads the blob behind a "/files/{id}" reference.
func (s *PostService) GetFile(ctx context.Context, id string) (blob.Blob, error) {
	if strings.TrimSpace(id) == "" {
		return blob.Blob{}, s.fail(ctx, opFile, mediapost_errors.NewNotFoundError("File not found"))
	}
	b, err := s.blobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, mediapost_errors.ErrNotFound) {
			err = mediapost_errors.NewNotFoundError("File not found")
		}
		return blob.Blob{}, s.fail(ctx, opFile, err, zap.String("file_id", id))
	}
	return b, nil
}

func (s *PostService) deleteFailed(ctx context.Context, id string, err error) error {
	s.events.Publish(ctx, events.LifecycleEvent{
		Kind:      events.KindDeleteFailed,
		PostID:    id,
		Reason:    err.Error(),
		RequestID: logger.RequestIDFromContext(ctx),
	})
	return s.fail(ctx, opDelete, err, zap.String("post_id", id))
}

// fail logs err with the operation context and returns it unchanged.
func (s *PostService) fail(ctx context.Context, operation string, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("operation", operation), zap.Error(err))
	if mediapost_errors.IsOperational(err) {
		s.logger.Warn(ctx, "Error in "+operation, fields...)
	} else {
		s.logger.Error(ctx, "Error in "+operation, fields...)
	}
	s.metrics.IncPostOperation(operation, "error")
	return err
}
