package repository

import (
	"context"

	"github.com/xyhcode/go-blog-api/pkg/domain/model"
)

// PostCategoryRepository 定义了文章分类的数据仓库接口。
type PostCategoryRepository interface {
	Create(ctx context.Context, req *model.CreatePostCategoryRequest) (*model.PostCategory, error)
	Update(ctx context.Context, id string, req *model.UpdatePostCategoryRequest) (*model.PostCategory, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.PostCategory, error)
	GetByID(ctx context.Context, id string) (*model.PostCategory, error)
	// FindByIDs 批量读取分类，用于文章列表的引用解析。不存在的 ID 被跳过。
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.PostCategory, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}
