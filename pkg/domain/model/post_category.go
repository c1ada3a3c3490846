package model

import "time"

// --- 核心领域对象 (Domain Object) ---

// PostCategory 是文章分类的核心领域模型。
type PostCategory struct {
	ID          string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
}

// --- API 数据传输对象 (Data Transfer Objects) ---

// CreatePostCategoryRequest 定义了创建文章分类的请求体
type CreatePostCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"max=200"`
}

// UpdatePostCategoryRequest 定义了更新文章分类的请求体
type UpdatePostCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description" binding:"omitempty,max=200"`
}

// PostCategoryResponse 定义了文章分类的标准 API 响应结构
type PostCategoryResponse struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}
