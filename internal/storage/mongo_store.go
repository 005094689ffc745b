package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediapost/internal/domain/blob"
	mediapost_errors "mediapost/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type MongoConfig struct {
	URL        string
	Database   string
	Collection string
}

// mongoFile is the document layout of the files collection.
type mongoFile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Filename    string             `bson:"filename"`
	ContentType string             `bson:"contentType"`
	Data        []byte             `bson:"data"`
	UploadDate  time.Time          `bson:"uploadDate"`
}

type MongoBlobStore struct {
	client *mongo.Client
	files  *mongo.Collection
}

func NewMongoBlobStore(ctx context.Context, cfg MongoConfig) (*MongoBlobStore, error) {
	if cfg.URL == "" || cfg.Database == "" {
		return nil, errors.New("mongo url and database are required")
	}
	if cfg.Collection == "" {
		cfg.Collection = "files"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoBlobStore{
		client: client,
		files:  client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoBlobStore) Save(ctx context.Context, upload blob.Upload) (string, error) {
	doc := mongoFile{
		ID:          primitive.NewObjectID(),
		Filename:    upload.Filename,
		ContentType: upload.ContentType,
		Data:        upload.Data,
		UploadDate:  time.Now().UTC(),
	}
	if _, err := s.files.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert file: %w", err)
	}
	return doc.ID.Hex(), nil
}

func (s *MongoBlobStore) Get(ctx context.Context, id string) (blob.Blob, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return blob.Blob{}, fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
	}

	var doc mongoFile
	if err := s.files.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return blob.Blob{}, fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
		}
		return blob.Blob{}, fmt.Errorf("find file: %w", err)
	}

	return blob.Blob{
		ID:          doc.ID.Hex(),
		Filename:    doc.Filename,
		ContentType: doc.ContentType,
		Data:        doc.Data,
		UploadDate:  doc.UploadDate,
	}, nil
}

func (s *MongoBlobStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
	}
	res, err := s.files.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("file %q: %w", id, mediapost_errors.ErrNotFound)
	}
	return nil
}

func (s *MongoBlobStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoBlobStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
