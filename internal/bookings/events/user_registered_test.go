package events

import (
	"context"
	"errors"
	"testing"

	"rently/pkg/kafka"
	"rently/pkg/model"
)

type mockDirectory struct {
	upsertUserFunc func(ctx context.Context, user *model.User) error
}

func (m *mockDirectory) ResolveUser(ctx context.Context, id string) (*model.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDirectory) ResolveItem(ctx context.Context, id string) (*model.Item, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDirectory) UpsertUser(ctx context.Context, user *model.User) error {
	if m.upsertUserFunc != nil {
		return m.upsertUserFunc(ctx, user)
	}
	return nil
}

func (m *mockDirectory) CreateItem(ctx context.Context, item *model.Item) error { return nil }

func (m *mockDirectory) ListItems(ctx context.Context, limit int, offset int64) ([]*model.Item, error) {
	return []*model.Item{}, nil
}

func (m *mockDirectory) CountItems(ctx context.Context) (int64, error) { return 0, nil }

func TestUserRegisteredHandler_UpsertsUser(t *testing.T) {
	var upserted *model.User
	dir := &mockDirectory{
		upsertUserFunc: func(ctx context.Context, user *model.User) error {
			upserted = user
			return nil
		},
	}
	handler := NewUserRegisteredHandler(dir, testLogger())

	msg := kafka.NewMessage().
		WithKey("7c9e6679-7425-40de-944b-e07fc1f90ae7").
		WithValue(model.UserRegisteredEvent{
			UserID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Name:   "Dana",
			Email:  "dana@example.com",
		}).
		WithEventType(EventTypeUserRegistered).
		Build()

	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upserted == nil {
		t.Fatal("expected user to be upserted")
	}
	if upserted.ID != "7c9e6679-7425-40de-944b-e07fc1f90ae7" || upserted.Email != "dana@example.com" {
		t.Errorf("unexpected user: %+v", upserted)
	}
}

func TestUserRegisteredHandler_MalformedPayload(t *testing.T) {
	handler := NewUserRegisteredHandler(&mockDirectory{}, testLogger())

	msg := kafka.NewMessage().
		WithRawValue([]byte("{not json")).
		Build()

	if err := handler(context.Background(), msg); err == nil {
		t.Fatal("expected decode error")
	}
}

// An event without a user ID is dropped, not retried: replaying it can
// never succeed.
func TestUserRegisteredHandler_MissingUserID(t *testing.T) {
	upserted := false
	dir := &mockDirectory{
		upsertUserFunc: func(ctx context.Context, user *model.User) error {
			upserted = true
			return nil
		},
	}
	handler := NewUserRegisteredHandler(dir, testLogger())

	msg := kafka.NewMessage().
		WithValue(model.UserRegisteredEvent{Name: "No ID"}).
		Build()

	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upserted {
		t.Error("user without ID must not be upserted")
	}
}

func TestUserRegisteredHandler_UpsertFailureSurfaces(t *testing.T) {
	dir := &mockDirectory{
		upsertUserFunc: func(ctx context.Context, user *model.User) error {
			return errors.New("connection reset")
		},
	}
	handler := NewUserRegisteredHandler(dir, testLogger())

	msg := kafka.NewMessage().
		WithValue(model.UserRegisteredEvent{
			UserID: "7c9e6679-7425-40de-944b-e07fc1f90ae7",
			Name:   "Dana",
			Email:  "dana@example.com",
		}).
		Build()

	if err := handler(context.Background(), msg); err == nil {
		t.Fatal("expected upsert failure to surface for retry")
	}
}
