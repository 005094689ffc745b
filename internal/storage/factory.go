package storage

import (
	"context"
	"errors"
	"fmt"

	"mediapost/config"

	"github.com/redis/go-redis/v9"
)

// Open builds the blob store selected by BLOB_BACKEND. The redis client is
// only used by the redis backend and may be nil otherwise.
func Open(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendMongo, "":
		return NewMongoBlobStore(ctx, MongoConfig{
			URL:        cfg.MongoURL,
			Database:   cfg.MongoDB,
			Collection: cfg.MongoCollection,
		})
	case config.BlobBackendS3:
		return NewS3BlobStore(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Prefix:    cfg.S3Prefix,
		})
	case config.BlobBackendRedis:
		if redisClient == nil {
			return nil, errors.New("redis blob backend requires REDIS_URL")
		}
		return NewRedisBlobStore(redisClient), nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
