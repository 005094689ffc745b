package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediapost/internal/domain/blob"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	blobKeyPrefix = "blob:"
	metaKeySuffix = ":meta"
)

type redisBlobMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	UploadDate  time.Time `json:"uploadDate"`
}

// RedisBlobStore keeps content and metadata under two keys written in one transaction.
type RedisBlobStore struct {
	client *redis.Client
}

func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{client: client}
}

func contentKey(id string) string { return blobKeyPrefix + id }
func metaKey(id string) string    { return blobKeyPrefix + id + metaKeySuffix }

func (s *RedisBlobStore) Save(ctx context.Context, upload blob.Upload) (string, error) {
	id := uuid.NewString()
	meta, err := json.Marshal(redisBlobMeta{
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Size:        len(upload.Data),
		UploadDate:  time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal blob meta: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, contentKey(id), upload.Data, 0)
	pipe.Set(ctx, metaKey(id), meta, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store blob: %w", err)
	}
	return id, nil
}

func (s *RedisBlobStore) Get(ctx context.Context, id string) (blob.Blob, error) {
	pipe := s.client.Pipeline()
	dataCmd := pipe.Get(ctx, contentKey(id))
	metaCmd := pipe.Get(ctx, metaKey(id))
	_, _ = pipe.Exec(ctx)

	data, err := dataCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return blob.Blob{}, fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
		}
		return blob.Blob{}, fmt.Errorf("read blob: %w", err)
	}

	b := blob.Blob{ID: id, Data: data}
	if raw, err := metaCmd.Bytes(); err == nil {
		var meta redisBlobMeta
		if err := json.Unmarshal(raw, &meta); err != nil {
			return blob.Blob{}, fmt.Errorf("unmarshal blob meta: %w", err)
		}
		b.Filename = meta.Filename
		b.ContentType = meta.ContentType
		b.UploadDate = meta.UploadDate
	}
	return b, nil
}

func (s *RedisBlobStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, contentKey(id), metaKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	if removed == 0 {
		return fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
	}
	return nil
}

func (s *RedisBlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
