package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rently/pkg/config"
	"rently/pkg/model"
)

const (
	UsersCollection = "Users"
	ItemsCollection = "Items"
)

// Directory resolves the user and item referenced by a booking request.
// Users are a local replica fed by registration events; items are owned here.
type Directory interface {
	ResolveUser(ctx context.Context, id string) (*model.User, error)
	ResolveItem(ctx context.Context, id string) (*model.Item, error)
	UpsertUser(ctx context.Context, user *model.User) error
	CreateItem(ctx context.Context, item *model.Item) error
	ListItems(ctx context.Context, limit int, offset int64) ([]*model.Item, error)
	CountItems(ctx context.Context) (int64, error)
}

type mongoDirectory struct {
	cfg   *config.Config
	users *mongo.Collection
	items *mongo.Collection
}

func NewMongoDirectory(cfg *config.Config) Directory {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDirectory{
		cfg:   cfg,
		users: db.Collection(UsersCollection),
		items: db.Collection(ItemsCollection),
	}
}

func (d *mongoDirectory) ResolveUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := d.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (d *mongoDirectory) ResolveItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	err := d.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return &item, nil
}

// UpsertUser keeps the user replica current as registration events arrive.
// Replays of the same event converge on the same document.
func (d *mongoDirectory) UpsertUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": user.ID}
	update := bson.M{
		"$set": bson.M{
			"name":       user.Name,
			"email":      user.Email,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := d.users.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (d *mongoDirectory) CreateItem(ctx context.Context, item *model.Item) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	item.CreatedAt = now
	item.UpdatedAt = now

	if _, err := d.items.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (d *mongoDirectory) ListItems(ctx context.Context, limit int, offset int64) ([]*model.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := d.items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*model.Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

func (d *mongoDirectory) CountItems(ctx context.Context) (int64, error) {
	count, err := d.items.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
