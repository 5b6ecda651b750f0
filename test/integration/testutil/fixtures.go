package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"rently/internal/directory"
	"rently/pkg/model"
)

type ItemBuilder struct {
	item model.Item
}

func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		item: model.Item{
			ID:              uuid.NewString(),
			Name:            "Test Camera",
			Category:        "electronics",
			PricePerDay:     50,
			MaxDurationDays: 30,
			IsAvailable:     true,
			Location:        "Tel Aviv",
			CreatedAt:       time.Now().UTC(),
		},
	}
}

func (b *ItemBuilder) WithName(name string) *ItemBuilder {
	b.item.Name = name
	return b
}

func (b *ItemBuilder) WithPricePerDay(price float64) *ItemBuilder {
	b.item.PricePerDay = price
	return b
}

func (b *ItemBuilder) WithMaxDurationDays(days int) *ItemBuilder {
	b.item.MaxDurationDays = days
	return b
}

func (b *ItemBuilder) Unavailable() *ItemBuilder {
	b.item.IsAvailable = false
	return b
}

func (b *ItemBuilder) Build() model.Item {
	return b.item
}

func ValidUser() model.User {
	return model.User{
		ID:        uuid.NewString(),
		Name:      "Test User",
		Email:     "test@example.com",
		CreatedAt: time.Now().UTC(),
	}
}

// SeedItem inserts an item directly into the Items collection and returns its ID.
func (m *MongoHelper) SeedItem(t *testing.T, item model.Item) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.GetCollection(directory.ItemsCollection).InsertOne(ctx, item); err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return item.ID
}

// SeedUser inserts a user directly into the Users collection and returns its ID.
func (m *MongoHelper) SeedUser(t *testing.T, user model.User) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := m.GetCollection(directory.UsersCollection).InsertOne(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user.ID
}
