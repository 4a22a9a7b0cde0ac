package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Volunteer_Hub/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PostCollection    = "posts"
	RequestCollection = "requests"
)

// Store 进程内唯一的 mongo 连接，启动时初始化，由各仓储共享
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect 建立连接并 ping 一次 admin 库
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetRegistry(Registry).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Store{Client: client, DB: client.Database(dbName)}, nil
}

// EnsureIndexes 帖子按 date 排序的索引 + 申请去重的唯一索引
// 去重索引只约束带 dedup_key 的文档，历史数据不受影响
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(PostCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetName("idx_post_date"),
	})
	if err != nil {
		return fmt.Errorf("create post index: %w", err)
	}

	_, err = s.DB.Collection(RequestCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "dedup_key", Value: 1}},
			Options: options.Index().
				SetName("uk_request_dedup").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"dedup_key": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{{Key: "volunteer_email", Value: 1}},
			Options: options.Index().SetName("idx_request_volunteer"),
		},
	})
	if err != nil {
		return fmt.Errorf("create request index: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}

func (s *Store) Posts() *PostRepository {
	return newPostRepository(s.DB)
}

func (s *Store) Requests() *RequestRepository {
	return newRequestRepository(s.DB)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

func insertedID(v any) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(v)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
