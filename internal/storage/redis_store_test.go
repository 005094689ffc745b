package storage

import (
	"context"
	"errors"
	"testing"

	"mediapost/internal/domain/blob"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisBlobStore, *miniredis.Miniredis) {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBlobStore(client), srv
}

func TestRedisBlobStoreRoundTrip(t *testing.T) {
	store, srv := newRedisStore(t)
	ctx := context.Background()

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d}
	id, err := store.Save(ctx, blob.Upload{Filename: "pic.png", ContentType: "image/png", Data: png})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatalf("expected generated id")
	}
	if !srv.Exists(contentKey(id)) || !srv.Exists(metaKey(id)) {
		t.Fatalf("expected content and meta keys")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Data) != string(png) {
		t.Fatalf("data mismatch")
	}
	if got.Filename != "pic.png" || got.ContentType != "image/png" {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if got.UploadDate.IsZero() {
		t.Fatalf("expected upload date")
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if srv.Exists(contentKey(id)) || srv.Exists(metaKey(id)) {
		t.Fatalf("expected keys removed")
	}
}

func TestRedisBlobStoreMissing(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing-blob"); !errors.Is(err, mediapost_errors.ErrNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	if err := store.Delete(ctx, "missing-blob"); !errors.Is(err, mediapost_errors.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestRedisBlobStorePing(t *testing.T) {
	store, srv := newRedisStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	srv.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure after shutdown")
	}
}
