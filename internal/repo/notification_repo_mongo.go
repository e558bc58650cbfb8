package repo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"seafood-shop/internal/domain"
)

// MongoNotificationStore notify.backend=mongo
type MongoNotificationStore struct {
	Collection *mongo.Collection
}

func NewMongoNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{Collection: db.Collection("notifications")}
}

var _ domain.NotificationStore = (*MongoNotificationStore)(nil)

// EnsureIndexes 启动时调用一次
func (m *MongoNotificationStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (m *MongoNotificationStore) Insert(ctx context.Context, ns ...*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ns))
	for _, n := range ns {
		docs = append(docs, n)
	}
	_, err := m.Collection.InsertMany(ctx, docs)
	return err
}

func (m *MongoNotificationStore) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := m.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoNotificationStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	return m.Collection.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

func (m *MongoNotificationStore) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	var n domain.Notification
	err := m.Collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (m *MongoNotificationStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := m.Collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (m *MongoNotificationStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	res, err := m.Collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (m *MongoNotificationStore) DeleteAll(ctx context.Context, userID string) (int64, error) {
	res, err := m.Collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
