package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"mediapost/internal/domain/blob"
	mediapost_errors "mediapost/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoBlobStore(t *testing.T) {
	url := os.Getenv("TEST_MONGO_URL")
	if url == "" {
		t.Skip("TEST_MONGO_URL not set")
	}
	ctx := context.Background()

	store, err := NewMongoBlobStore(ctx, MongoConfig{URL: url, Database: "mediapost_test", Collection: "files"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	id, err := store.Save(ctx, blob.Upload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("hello")})
	require.NoError(t, err)
	_, err = primitive.ObjectIDFromHex(id)
	require.NoError(t, err, "ids are ObjectID hex strings")

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got.Data))
	assert.Equal(t, "a.txt", got.Filename)

	require.NoError(t, store.Delete(ctx, id))
	assert.True(t, errors.Is(store.Delete(ctx, id), mediapost_errors.ErrNotFound))
	_, err = store.Get(ctx, "not-an-object-id")
	assert.True(t, errors.Is(err, mediapost_errors.ErrNotFound))
}
