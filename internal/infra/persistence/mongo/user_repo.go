package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/xyhcode/go-blog-api/internal/infra/persistence/database"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
)

// userDoc 是用户的存储结构。
type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// userRepo 是 UserRepository 的 MongoDB 实现。
type userRepo struct {
	users *mongodriver.Collection
}

// NewUserRepo 是 userRepo 的构造函数。
func NewUserRepo(db *mongodriver.Database) repository.UserRepository {
	return &userRepo{users: db.Collection(database.CollectionUsers)}
}

// Create 持久化新用户。邮箱唯一索引冲突映射为 ErrConflict。
func (r *userRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	doc := userDoc{
		Username:     user.Username,
		Email:        strings.ToLower(strings.TrimSpace(user.Email)),
		PasswordHash: user.PasswordHash,
		CreatedAt:    toMS(time.Now()),
	}

	res, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("插入用户失败: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("插入用户返回了非 ObjectID 的主键")
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// FindByID 按 ID 获取用户。
func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	var doc userDoc
	if err := r.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return doc.toModel(), nil
}

// FindByEmail 按邮箱获取用户。
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDoc
	filter := bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}}
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return doc.toModel(), nil
}

// FindByIDs 批量读取用户，返回 ID -> 用户 的映射。非法或不存在的 ID 被跳过。
func (r *userRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	result := make(map[string]*model.User, len(oids))
	if len(oids) == 0 {
		return result, nil
	}

	cursor, err := r.users.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, fmt.Errorf("批量查询用户失败: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("解析用户失败: %w", err)
	}
	for i := range docs {
		u := docs[i].toModel()
		result[u.ID] = u
	}
	return result, nil
}
