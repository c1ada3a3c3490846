package post_category

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
	"github.com/xyhcode/go-blog-api/pkg/response"
	categorySvc "github.com/xyhcode/go-blog-api/pkg/service/post_category"
)

// Handler 封装了所有与文章分类相关的 HTTP 处理器。
type Handler struct {
	svc *categorySvc.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *categorySvc.Service) *Handler {
	return &Handler{svc: svc}
}

// failWith 把服务层错误映射为统一的 HTTP 响应。
func failWith(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		response.Fail(c, http.StatusBadRequest, "分类ID格式非法")
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, "分类不存在")
	case errors.Is(err, repository.ErrConflict):
		response.Fail(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[PostCategoryHandler] 内部错误: %v", err)
		response.Fail(c, http.StatusInternalServerError, "服务器内部错误")
	}
}

// List 获取所有分类。
func (h *Handler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context())
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "获取分类列表成功")
}

// Get 按 ID 获取分类。
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "获取分类成功")
}

// Create 创建分类。
func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePostCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求: "+err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, result, "创建分类成功")
}

// Update 更新分类。
func (h *Handler) Update(c *gin.Context) {
	var req model.UpdatePostCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求: "+err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, result, "更新分类成功")
}

// Delete 删除分类。
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWith(c, err)
		return
	}
	response.Success(c, nil, "分类已删除")
}
