package repository

import (
	"context"

	"github.com/xyhcode/go-blog-api/pkg/domain/model"
)

// UserRepository 定义了用户的数据仓库接口。
type UserRepository interface {
	// Create 持久化新用户。邮箱重复时返回 ErrConflict。
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByIDs 批量读取用户，用于文章作者和评论用户的引用解析。不存在的 ID 被跳过。
	FindByIDs(ctx context.Context, ids []string) (map[string]*model.User, error)
}
