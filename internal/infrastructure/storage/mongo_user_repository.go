package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

const usersCollection = "users"

// MongoUserRepository хранит пользователей в MongoDB
type MongoUserRepository struct {
	client *mongo.Client
	col    *mongo.Collection
}

// NewMongoUserRepository подключается к MongoDB и создаёт уникальный индекс по user_id
func NewMongoUserRepository(ctx context.Context, uri, database string) (*MongoUserRepository, error) {
	if uri == "" {
		return nil, errors.New("MONGODB_URI is empty")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	col := client.Database(database).Collection(usersCollection)
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo create index: %w", err)
	}
	return &MongoUserRepository{client: client, col: col}, nil
}

// Get возвращает пользователя или nil
func (m *MongoUserRepository) Get(ctx context.Context, userID int64) (*entity.UserRecord, error) {
	var rec entity.UserRecord
	err := m.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: mongo find user %d: %v", entity.ErrStorageRead, userID, err)
	}
	return &rec, nil
}

// Save обновляет имя и время последнего визита; first_seen_at пишется только при вставке
func (m *MongoUserRepository) Save(ctx context.Context, user *entity.UserRecord) error {
	_, err := m.col.UpdateOne(ctx,
		bson.M{"user_id": user.ID},
		userUpsert(user),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: mongo upsert user %d: %v", entity.ErrStorageWrite, user.ID, err)
	}
	return nil
}

// Count возвращает число пользователей
func (m *MongoUserRepository) Count(ctx context.Context) (int, error) {
	n, err := m.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("%w: mongo count users: %v", entity.ErrStorageRead, err)
	}
	return int(n), nil
}

// Close отключается от MongoDB
func (m *MongoUserRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func userUpsert(user *entity.UserRecord) bson.M {
	return bson.M{
		"$set": bson.M{
			"display_name": user.DisplayName,
			"last_seen_at": user.LastSeenAt,
		},
		"$setOnInsert": bson.M{
			"first_seen_at": user.FirstSeenAt,
		},
	}
}

var _ port.UserRepository = (*MongoUserRepository)(nil)
