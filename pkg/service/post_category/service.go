package post_category

import (
	"context"
	"fmt"
	"strings"

	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
)

// Service 封装了文章分类的业务逻辑。
type Service struct {
	repo repository.PostCategoryRepository
}

// NewService 是 PostCategory Service 的构造函数。
func NewService(repo repository.PostCategoryRepository) *Service {
	return &Service{repo: repo}
}

// toAPIResponse 是一个私有的辅助函数，将领域模型转换为用于API响应的DTO。
func (s *Service) toAPIResponse(c *model.PostCategory) *model.PostCategoryResponse {
	if c == nil {
		return nil
	}
	return &model.PostCategoryResponse{
		ID:          c.ID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Name:        c.Name,
		Description: c.Description,
	}
}

// Create 处理创建新分类的业务逻辑。
func (s *Service) Create(ctx context.Context, req *model.CreatePostCategoryRequest) (*model.PostCategoryResponse, error) {
	req.Name = strings.TrimSpace(req.Name)

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("检查分类名称失败: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("分类名称 '%s' 已存在: %w", req.Name, repository.ErrConflict)
	}

	newCategory, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.toAPIResponse(newCategory), nil
}

// List 处理获取所有分类的业务逻辑。
func (s *Service) List(ctx context.Context) ([]*model.PostCategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*model.PostCategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = s.toAPIResponse(category)
	}

	return responses, nil
}

// Get 处理按 ID 获取分类的业务逻辑。
func (s *Service) Get(ctx context.Context, id string) (*model.PostCategoryResponse, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toAPIResponse(category), nil
}

// Update 处理更新分类的业务逻辑。
func (s *Service) Update(ctx context.Context, id string, req *model.UpdatePostCategoryRequest) (*model.PostCategoryResponse, error) {
	updatedCategory, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return s.toAPIResponse(updatedCategory), nil
}

// Delete 处理删除分类的业务逻辑。
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
