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
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyhcode/go-blog-api/internal/infra/persistence/database"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
)

// categoryDoc 是文章分类的存储结构。
type categoryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d *categoryDoc) toModel() *model.PostCategory {
	return &model.PostCategory{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// postCategoryRepo 是 PostCategoryRepository 的 MongoDB 实现。
type postCategoryRepo struct {
	categories *mongodriver.Collection
}

// NewPostCategoryRepo 是 postCategoryRepo 的构造函数。
func NewPostCategoryRepo(db *mongodriver.Database) repository.PostCategoryRepository {
	return &postCategoryRepo{categories: db.Collection(database.CollectionPostCategories)}
}

// Create 持久化新分类。分类名唯一索引冲突映射为 ErrConflict。
func (r *postCategoryRepo) Create(ctx context.Context, req *model.CreatePostCategoryRequest) (*model.PostCategory, error) {
	now := toMS(time.Now())
	doc := categoryDoc{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.categories.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("插入分类失败: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("插入分类返回了非 ObjectID 的主键")
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// Update 按 ID 更新分类的给定字段。
func (r *postCategoryRepo) Update(ctx context.Context, id string, req *model.UpdatePostCategoryRequest) (*model.PostCategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	set := bson.D{{Key: "updated_at", Value: toMS(time.Now())}}
	if req.Name != nil {
		set = append(set, bson.E{Key: "name", Value: strings.TrimSpace(*req.Name)})
	}
	if req.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *req.Description})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc categoryDoc
	if err := r.categories.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, repository.ErrConflict
		}
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	return doc.toModel(), nil
}

// Delete 按 ID 删除分类。
func (r *postCategoryRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrInvalidID
	}

	res, err := r.categories.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("删除分类失败: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List 返回全部分类，按名称排序。
func (r *postCategoryRepo) List(ctx context.Context) ([]*model.PostCategory, error) {
	cursor, err := r.categories.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("解析分类列表失败: %w", err)
	}

	categories := make([]*model.PostCategory, len(docs))
	for i := range docs {
		categories[i] = docs[i].toModel()
	}
	return categories, nil
}

// GetByID 按 ID 获取分类。
func (r *postCategoryRepo) GetByID(ctx context.Context, id string) (*model.PostCategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	var doc categoryDoc
	if err := r.categories.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}
	return doc.toModel(), nil
}

// FindByIDs 批量读取分类，返回 ID -> 分类 的映射。非法或不存在的 ID 被跳过。
func (r *postCategoryRepo) FindByIDs(ctx context.Context, ids []string) (map[string]*model.PostCategory, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	result := make(map[string]*model.PostCategory, len(oids))
	if len(oids) == 0 {
		return result, nil
	}

	cursor, err := r.categories.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}})
	if err != nil {
		return nil, fmt.Errorf("批量查询分类失败: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("解析分类失败: %w", err)
	}
	for i := range docs {
		c := docs[i].toModel()
		result[c.ID] = c
	}
	return result, nil
}

// ExistsByName 检查分类名是否已存在。
func (r *postCategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	count, err := r.categories.CountDocuments(ctx, bson.D{{Key: "name", Value: strings.TrimSpace(name)}})
	if err != nil {
		return false, fmt.Errorf("检查分类名失败: %w", err)
	}
	return count > 0, nil
}
