package repository

import (
	"context"

	"github.com/xyhcode/go-blog-api/pkg/domain/model"
)

// PostRepository 定义了文章聚合的数据仓库接口。
// 评论内嵌在文章文档中，追加评论是文章文档上的原子操作。
type PostRepository interface {
	// Create 持久化一篇新文章，返回带生成 ID 和时间戳的文章。
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	// FindByID 按 ID 获取文章。ID 非法返回 ErrInvalidID，不存在返回 ErrNotFound。
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// Update 按 ID 覆盖 title/content/category/featuredImage/author 字段，
	// 返回更新后的文章。created_at 和评论列表不受影响。
	Update(ctx context.Context, id string, post *model.Post) (*model.Post, error)
	// Delete 按 ID 删除文章。没有匹配记录时返回 ErrNotFound。
	Delete(ctx context.Context, id string) error
	// List 返回满足过滤条件的一页文章和匹配总数（忽略分页）。
	// 排序固定为创建时间倒序。
	List(ctx context.Context, options *model.ListPostsOptions) ([]*model.Post, int64, error)
	// AppendComment 向文章的评论列表原子地追加一条评论，返回追加后的文章。
	// 评论的 ID 和 CreatedAt 由存储层生成。文章不存在返回 ErrNotFound。
	AppendComment(ctx context.Context, postID string, comment *model.Comment) (*model.Post, error)
}
