package database

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/xyhcode/go-blog-api/pkg/config"
)

// 集合名称
const (
	CollectionPosts          = "posts"
	CollectionPostCategories = "post_categories"
	CollectionUsers          = "users"
)

// NewMongoDatabase 连接 MongoDB，校验连通性并确保索引存在。
// 返回的 cleanup 函数负责断开连接。
func NewMongoDatabase(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	uri := cfg.GetString(config.KeyDBURL)
	if uri == "" {
		return nil, nil, fmt.Errorf("mongo: 未配置 Database.URL")
	}

	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := cfg.GetString(config.KeyDBName)
	if dbName == "" {
		dbName = "blog"
	}
	db := client.Database(dbName)

	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	cleanup := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("警告: 断开 MongoDB 连接失败: %v", err)
		}
	}

	log.Printf("✅ 成功连接到 MongoDB (%s)", dbName)
	return db, cleanup, nil
}

// ensureIndexes 创建各集合需要的索引。
// - users: 邮箱唯一
// - post_categories: 分类名唯一
// - posts: 分类 + 创建时间倒序，服务于列表查询
func ensureIndexes(ctx context.Context, db *mongodriver.Database) error {
	userIndexes := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
	}
	if _, err := db.Collection(CollectionUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("mongo ensure user indexes: %w", err)
	}

	categoryIndexes := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_name").SetUnique(true),
		},
	}
	if _, err := db.Collection(CollectionPostCategories).Indexes().CreateMany(ctx, categoryIndexes); err != nil {
		return fmt.Errorf("mongo ensure category indexes: %w", err)
	}

	postIndexes := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("category_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
	}
	if _, err := db.Collection(CollectionPosts).Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("mongo ensure post indexes: %w", err)
	}

	return nil
}
