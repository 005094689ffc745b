package services

import (
	"context"

	"mediapost/internal/domain/blob"
	"mediapost/internal/domain/post"
	"mediapost/internal/domain/user"
	"mediapost/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) Create(ctx context.Context, p *post.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockPostRepo) GetByID(ctx context.Context, id uuid.UUID) (post.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(post.Post), args.Error(1)
}

func (m *mockPostRepo) ListAll(ctx context.Context) ([]post.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]post.Post), args.Error(1)
}

func (m *mockPostRepo) DeleteByID(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Save(ctx context.Context, upload blob.Upload) (string, error) {
	args := m.Called(ctx, upload)
	return args.String(0), args.Error(1)
}

func (m *mockBlobStore) Get(ctx context.Context, id string) (blob.Blob, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(blob.Blob), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBlobStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(user.User), args.Error(1)
}

// recorder captures every event published on a bus.
type recorder struct {
	events []events.LifecycleEvent
}

func newRecordingBus() (*events.Bus, *recorder) {
	bus := events.NewBus(nil, 0)
	rec := &recorder{}
	bus.SubscribeAll("recorder", func(ctx context.Context, e events.LifecycleEvent) error {
		rec.events = append(rec.events, e)
		return nil
	})
	return bus, rec
}

func (r *recorder) kinds() []events.Kind {
	out := make([]events.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) last(kind events.Kind) (events.LifecycleEvent, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == kind {
			return r.events[i], true
		}
	}
	return events.LifecycleEvent{}, false
}
