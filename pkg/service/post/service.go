package post

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xyhcode/go-blog-api/internal/pkg/parser"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
)

// ValidationError 聚合了一次请求中所有缺失的必填字段。
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "缺少必填字段: " + strings.Join(e.Fields, ", ")
}

// Service 定义了文章聚合的业务接口。
type Service interface {
	// List 返回过滤、分页后的文章列表。每篇文章的分类和作者已解析。
	List(ctx context.Context, options *model.ListPostsOptions) (*model.PostListResponse, error)
	// Get 返回单篇文章，分类、作者和每条评论的用户均已解析，
	// 并附带渲染后的 content_html。
	Get(ctx context.Context, id string) (*model.PostResponse, error)
	// Create 校验必填字段并持久化新文章，作者为当前调用者。
	Create(ctx context.Context, req *model.SavePostRequest, authorID, imageRef string) (*model.PostResponse, error)
	// Update 重新校验必填字段并覆盖文章。作者被重置为当前调用者，
	// 这是从原系统保留下来的行为（见 DESIGN.md）。
	Update(ctx context.Context, id string, req *model.SavePostRequest, authorID, imageRef string) (*model.PostResponse, error)
	// Delete 按 ID 删除文章。没有匹配记录时返回 repository.ErrNotFound。
	Delete(ctx context.Context, id string) error
	// AddComment 向文章追加一条评论并返回追加后的文章。
	AddComment(ctx context.Context, postID, content, userID string) (*model.PostResponse, error)
}

// serviceImpl 是 Service 的默认实现。
type serviceImpl struct {
	repo         repository.PostRepository
	categoryRepo repository.PostCategoryRepository
	userRepo     repository.UserRepository
}

// NewService 是 Post Service 的构造函数。
func NewService(
	repo repository.PostRepository,
	categoryRepo repository.PostCategoryRepository,
	userRepo repository.UserRepository,
) Service {
	return &serviceImpl{
		repo:         repo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
	}
}

// validateSaveRequest 检查必填字段，返回包含全部缺失字段的校验错误。
func validateSaveRequest(req *model.SavePostRequest) *ValidationError {
	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(req.CategoryID) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// resolveRefs 批量读取一批文章引用到的分类和用户，作为读取时的引用解析。
// includeCommentUsers 决定是否把评论里的用户也纳入解析范围（仅详情需要）。
func (s *serviceImpl) resolveRefs(ctx context.Context, posts []*model.Post, includeCommentUsers bool) (map[string]*model.PostCategory, map[string]*model.User, error) {
	categoryIDSet := make(map[string]struct{})
	userIDSet := make(map[string]struct{})
	for _, p := range posts {
		categoryIDSet[p.CategoryID] = struct{}{}
		userIDSet[p.AuthorID] = struct{}{}
		if includeCommentUsers {
			for _, c := range p.Comments {
				userIDSet[c.UserID] = struct{}{}
			}
		}
	}

	categoryIDs := make([]string, 0, len(categoryIDSet))
	for id := range categoryIDSet {
		categoryIDs = append(categoryIDs, id)
	}
	userIDs := make([]string, 0, len(userIDSet))
	for id := range userIDSet {
		userIDs = append(userIDs, id)
	}

	categories, err := s.categoryRepo.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("解析分类引用失败: %w", err)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("解析用户引用失败: %w", err)
	}
	return categories, users, nil
}

// toResponse 将领域模型组装为 API 响应。失效的引用解析为 nil，而不是错误。
func toResponse(p *model.Post, categories map[string]*model.PostCategory, users map[string]*model.User, withComments bool) *model.PostResponse {
	resp := &model.PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}

	if category, ok := categories[p.CategoryID]; ok {
		resp.Category = &model.PostCategoryResponse{
			ID:          category.ID,
			CreatedAt:   category.CreatedAt,
			UpdatedAt:   category.UpdatedAt,
			Name:        category.Name,
			Description: category.Description,
		}
	}
	if author, ok := users[p.AuthorID]; ok {
		resp.Author = author.ToResponse()
	}

	if withComments {
		comments := make([]*model.CommentResponse, len(p.Comments))
		for i, c := range p.Comments {
			comment := &model.CommentResponse{
				ID:        c.ID,
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			}
			if user, ok := users[c.UserID]; ok {
				comment.User = user.ToResponse()
			}
			comments[i] = comment
		}
		resp.Comments = comments
	}

	return resp
}

// List 执行过滤、分页的列表查询。
// totalPages = ceil(匹配总数 / limit)，currentPage 原样回传。
func (s *serviceImpl) List(ctx context.Context, options *model.ListPostsOptions) (*model.PostListResponse, error) {
	posts, total, err := s.repo.List(ctx, options)
	if err != nil {
		return nil, err
	}

	categories, users, err := s.resolveRefs(ctx, posts, false)
	if err != nil {
		return nil, err
	}

	list := make([]*model.PostResponse, len(posts))
	for i, p := range posts {
		list[i] = toResponse(p, categories, users, false)
	}

	totalPages := (total + int64(options.Limit) - 1) / int64(options.Limit)

	return &model.PostListResponse{
		Posts:       list,
		TotalPages:  totalPages,
		CurrentPage: options.Page,
	}, nil
}

// Get 返回单篇文章的完整视图。
func (s *serviceImpl) Get(ctx context.Context, id string) (*model.PostResponse, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, users, err := s.resolveRefs(ctx, []*model.Post{post}, true)
	if err != nil {
		return nil, err
	}

	resp := toResponse(post, categories, users, true)

	contentHTML, err := parser.MarkdownToHTML(post.Content)
	if err != nil {
		// 渲染失败不影响详情返回，只是没有 content_html
		log.Printf("[PostService.Get] 渲染文章内容失败: %v", err)
	} else {
		resp.ContentHTML = contentHTML
	}

	return resp, nil
}

// Create 校验并持久化新文章。未上传封面图时使用占位图。
func (s *serviceImpl) Create(ctx context.Context, req *model.SavePostRequest, authorID, imageRef string) (*model.PostResponse, error) {
	if vErr := validateSaveRequest(req); vErr != nil {
		return nil, vErr
	}

	featuredImage := imageRef
	if featuredImage == "" {
		featuredImage = model.DefaultFeaturedImage
	}

	created, err := s.repo.Create(ctx, &model.Post{
		Title:         strings.TrimSpace(req.Title),
		Content:       req.Content,
		CategoryID:    strings.TrimSpace(req.CategoryID),
		AuthorID:      authorID,
		FeaturedImage: featuredImage,
	})
	if err != nil {
		return nil, err
	}

	categories, users, err := s.resolveRefs(ctx, []*model.Post{created}, false)
	if err != nil {
		return nil, err
	}
	return toResponse(created, categories, users, true), nil
}

// Update 重新校验并覆盖文章字段。
// 未上传新封面图时沿用请求里的 featuredImage 字段值；作者被重置为当前调用者。
func (s *serviceImpl) Update(ctx context.Context, id string, req *model.SavePostRequest, authorID, imageRef string) (*model.PostResponse, error) {
	if vErr := validateSaveRequest(req); vErr != nil {
		return nil, vErr
	}

	featuredImage := imageRef
	if featuredImage == "" {
		featuredImage = req.FeaturedImage
	}

	updated, err := s.repo.Update(ctx, id, &model.Post{
		Title:         strings.TrimSpace(req.Title),
		Content:       req.Content,
		CategoryID:    strings.TrimSpace(req.CategoryID),
		AuthorID:      authorID,
		FeaturedImage: featuredImage,
	})
	if err != nil {
		return nil, err
	}

	categories, users, err := s.resolveRefs(ctx, []*model.Post{updated}, true)
	if err != nil {
		return nil, err
	}
	return toResponse(updated, categories, users, true), nil
}

// Delete 按 ID 删除文章。引用的封面图文件不做级联清理。
func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddComment 清理评论内容后原子地追加到文章的评论列表。
func (s *serviceImpl) AddComment(ctx context.Context, postID, content, userID string) (*model.PostResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Fields: []string{"content"}}
	}
	content = parser.SanitizeUGC(content)

	updated, err := s.repo.AppendComment(ctx, postID, &model.Comment{
		UserID:  userID,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	categories, users, err := s.resolveRefs(ctx, []*model.Post{updated}, true)
	if err != nil {
		return nil, err
	}
	return toResponse(updated, categories, users, true), nil
}
