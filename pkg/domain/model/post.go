package model

import "time"

// DefaultFeaturedImage 是创建文章时未上传封面图的占位文件名。
const DefaultFeaturedImage = "default-post.jpg"

// --- 核心领域对象 (Domain Object) ---

// Comment 是内嵌在文章文档中的评论。对外只支持追加，不支持修改和删除。
type Comment struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Post 是文章的核心领域模型。评论以内嵌列表的形式随文章一起存储。
type Post struct {
	ID            string
	Title         string
	Content       string
	CategoryID    string
	AuthorID      string
	FeaturedImage string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Comments      []Comment
}

// ListPostsOptions 定义了文章列表的查询选项。
// Page 和 Limit 必须为正整数，由 Handler 层校验后传入。
type ListPostsOptions struct {
	Page       int
	Limit      int
	CategoryID string
	Search     string
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// SavePostRequest 定义了创建/更新文章的请求体（multipart 表单字段）。
// 封面图文件单独经由 Handler 处理，不在此结构中。
type SavePostRequest struct {
	Title         string `form:"title"`
	Content       string `form:"content"`
	CategoryID    string `form:"category"`
	FeaturedImage string `form:"featuredImage"`
}

// AddCommentRequest 定义了发表评论的请求体
type AddCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// CommentResponse 定义了评论的标准 API 响应结构
type CommentResponse struct {
	ID        string        `json:"id"`
	User      *UserResponse `json:"user"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

// PostResponse 定义了文章的标准 API 响应结构。
// Category 和 Author 是读取时解析引用得到的，引用失效时为 null。
// ContentHTML 只在详情接口返回，列表接口为空。
type PostResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Content       string                `json:"content"`
	ContentHTML   string                `json:"content_html,omitempty"`
	Category      *PostCategoryResponse `json:"category"`
	Author        *UserResponse         `json:"author"`
	FeaturedImage string                `json:"featuredImage"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Comments      []*CommentResponse    `json:"comments,omitempty"`
}

// PostListResponse 定义了分页文章列表的响应结构
type PostListResponse struct {
	Posts       []*PostResponse `json:"posts"`
	TotalPages  int64           `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}
