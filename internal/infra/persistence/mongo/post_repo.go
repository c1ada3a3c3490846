package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyhcode/go-blog-api/internal/infra/persistence/database"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
)

// commentDoc 是内嵌在文章文档中的评论存储结构。
type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

// postDoc 是文章的存储结构。category 和 author 以 ObjectID 引用的形式存储，
// 读取时由 Service 层解析为完整实体。
type postDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	CategoryID    primitive.ObjectID `bson:"category"`
	AuthorID      primitive.ObjectID `bson:"author"`
	FeaturedImage string             `bson:"featured_image"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
	Comments      []commentDoc       `bson:"comments"`
}

// postRepo 是 PostRepository 的 MongoDB 实现。
type postRepo struct {
	posts *mongodriver.Collection
}

// NewPostRepo 是 postRepo 的构造函数。
func NewPostRepo(db *mongodriver.Database) repository.PostRepository {
	return &postRepo{posts: db.Collection(database.CollectionPosts)}
}

// toMS 将时间截断到毫秒。MongoDB 的 DateTime 只保存毫秒精度。
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func (d *postDoc) toModel() *model.Post {
	comments := make([]model.Comment, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = model.Comment{
			ID:        c.ID.Hex(),
			UserID:    c.UserID.Hex(),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		}
	}
	return &model.Post{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		CategoryID:    d.CategoryID.Hex(),
		AuthorID:      d.AuthorID.Hex(),
		FeaturedImage: d.FeaturedImage,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Comments:      comments,
	}
}

// refsFromModel 将文章上的引用字段解析为 ObjectID。
// 任意一个引用非法都返回 ErrInvalidID。
func refsFromModel(post *model.Post) (categoryID, authorID primitive.ObjectID, err error) {
	categoryID, err = primitive.ObjectIDFromHex(post.CategoryID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("分类ID非法: %w", repository.ErrInvalidID)
	}
	authorID, err = primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("作者ID非法: %w", repository.ErrInvalidID)
	}
	return categoryID, authorID, nil
}

// Create 持久化一篇新文章。
func (r *postRepo) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	categoryID, authorID, err := refsFromModel(post)
	if err != nil {
		return nil, err
	}

	now := toMS(time.Now())
	doc := postDoc{
		Title:         post.Title,
		Content:       post.Content,
		CategoryID:    categoryID,
		AuthorID:      authorID,
		FeaturedImage: post.FeaturedImage,
		CreatedAt:     now,
		UpdatedAt:     now,
		Comments:      []commentDoc{},
	}

	res, err := r.posts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("插入文章失败: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("插入文章返回了非 ObjectID 的主键")
	}
	doc.ID = oid
	return doc.toModel(), nil
}

// FindByID 按 ID 获取文章。
func (r *postRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	var doc postDoc
	if err := r.posts.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}
	return doc.toModel(), nil
}

// Update 覆盖 title/content/category/featuredImage/author 字段并返回更新后的文章。
// created_at 和评论列表不在 $set 范围内，保持不变。
func (r *postRepo) Update(ctx context.Context, id string, post *model.Post) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	categoryID, authorID, err := refsFromModel(post)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: post.Title},
		{Key: "content", Value: post.Content},
		{Key: "category", Value: categoryID},
		{Key: "author", Value: authorID},
		{Key: "featured_image", Value: post.FeaturedImage},
		{Key: "updated_at", Value: toMS(time.Now())},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	if err := r.posts.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("更新文章失败: %w", err)
	}
	return doc.toModel(), nil
}

// Delete 按 ID 删除文章。
func (r *postRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrInvalidID
	}

	res, err := r.posts.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("删除文章失败: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// buildListFilter 根据查询选项构建过滤条件。
// - category: 对文章分类引用做精确匹配
// - search: 标题的大小写不敏感子串匹配（正则元字符被转义，保证按字面匹配）
func buildListFilter(opts *model.ListPostsOptions) (bson.D, error) {
	filter := bson.D{}

	if opts.CategoryID != "" {
		oid, err := primitive.ObjectIDFromHex(opts.CategoryID)
		if err != nil {
			return nil, repository.ErrInvalidID
		}
		filter = append(filter, bson.E{Key: "category", Value: oid})
	}

	if opts.Search != "" {
		filter = append(filter, bson.E{Key: "title", Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(opts.Search),
			Options: "i",
		}})
	}

	return filter, nil
}

// List 返回满足条件的一页文章（创建时间倒序）和匹配总数。
func (r *postRepo) List(ctx context.Context, opts *model.ListPostsOptions) ([]*model.Post, int64, error) {
	filter, err := buildListFilter(opts)
	if err != nil {
		return nil, 0, err
	}

	skip := int64(opts.Page-1) * int64(opts.Limit)
	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(opts.Limit))

	cursor, err := r.posts.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("查询文章列表失败: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("解析文章列表失败: %w", err)
	}

	posts := make([]*model.Post, len(docs))
	for i := range docs {
		posts[i] = docs[i].toModel()
	}

	total, err := r.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("统计文章数量失败: %w", err)
	}

	return posts, total, nil
}

// AppendComment 通过 $push 原子地向评论列表追加一条评论。
// 整个追加在文档级写锁下完成，并发追加不会互相覆盖。
func (r *postRepo) AppendComment(ctx context.Context, postID string, comment *model.Comment) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	userID, err := primitive.ObjectIDFromHex(comment.UserID)
	if err != nil {
		return nil, fmt.Errorf("评论用户ID非法: %w", repository.ErrInvalidID)
	}

	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Content:   comment.Content,
		CreatedAt: toMS(time.Now()),
	}

	update := bson.D{{Key: "$push", Value: bson.D{{Key: "comments", Value: doc}}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated postDoc
	if err := r.posts.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("追加评论失败: %w", err)
	}
	return updated.toModel(), nil
}
