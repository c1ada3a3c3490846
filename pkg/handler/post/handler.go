package post

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/go-blog-api/internal/infra/storage"
	"github.com/xyhcode/go-blog-api/internal/pkg/auth"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
	"github.com/xyhcode/go-blog-api/pkg/response"
	postSvc "github.com/xyhcode/go-blog-api/pkg/service/post"
)

// Handler 封装了所有与文章相关的 HTTP 处理器。
type Handler struct {
	svc      postSvc.Service
	uploader storage.Provider
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc postSvc.Service, uploader storage.Provider) *Handler {
	return &Handler{svc: svc, uploader: uploader}
}

// getClaims 从上下文取出认证中间件写入的用户信息。
func getClaims(c *gin.Context) (*auth.CustomClaims, error) {
	claimsValue, exists := c.Get(auth.ClaimsKey)
	if !exists {
		return nil, errors.New("上下文中没有找到认证信息")
	}
	claims, ok := claimsValue.(*auth.CustomClaims)
	if !ok {
		return nil, errors.New("认证信息格式不正确")
	}
	return claims, nil
}

// failWith 把服务层错误映射为统一的 HTTP 响应。
func failWith(c *gin.Context, err error, notFoundMessage string) {
	var vErr *postSvc.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.FailWithData(c, http.StatusBadRequest, gin.H{"fields": vErr.Fields}, vErr.Error())
	case errors.Is(err, repository.ErrInvalidID):
		response.Fail(c, http.StatusBadRequest, "ID格式非法")
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, notFoundMessage)
	default:
		log.Printf("[PostHandler] 内部错误: %v", err)
		response.Fail(c, http.StatusInternalServerError, "服务器内部错误")
	}
}

// parsePositiveInt 严格解析正整数查询参数。
// 非数字或小于 1 的值一律拒绝，不做隐式纠正。
func parsePositiveInt(raw string) (int, bool) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// List 获取过滤、分页的文章列表。
// page/limit 默认 1/10；category 为分类 ID 精确过滤；
// search 为标题的大小写不敏感子串搜索。
func (h *Handler) List(c *gin.Context) {
	page, ok := parsePositiveInt(c.DefaultQuery("page", "1"))
	if !ok {
		response.Fail(c, http.StatusBadRequest, "page 必须是正整数")
		return
	}
	limit, ok := parsePositiveInt(c.DefaultQuery("limit", "10"))
	if !ok {
		response.Fail(c, http.StatusBadRequest, "limit 必须是正整数")
		return
	}

	options := &model.ListPostsOptions{
		Page:       page,
		Limit:      limit,
		CategoryID: c.Query("category"),
		Search:     c.Query("search"),
	}

	result, err := h.svc.List(c.Request.Context(), options)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			response.Fail(c, http.StatusBadRequest, "分类ID格式非法")
			return
		}
		log.Printf("[PostHandler.List] 获取文章列表失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "获取文章列表失败")
		return
	}

	response.Success(c, result, "获取列表成功")
}

// Get 获取单篇文章详情。
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, err, "文章不存在")
		return
	}
	response.Success(c, result, "获取文章成功")
}

// bindSaveRequest 解析 multipart 表单字段和可选的封面图文件。
// 有文件上传时保存文件并返回生成的文件名。
func (h *Handler) bindSaveRequest(c *gin.Context) (*model.SavePostRequest, string, error) {
	var req model.SavePostRequest
	if err := c.ShouldBind(&req); err != nil {
		return nil, "", err
	}

	fileHeader, err := c.FormFile("featuredImage")
	if err != nil {
		// 封面图是可选的，没有文件不算错误
		return &req, "", nil
	}

	fileReader, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer fileReader.Close()

	filename, err := h.uploader.Save(fileReader, fileHeader.Filename)
	if err != nil {
		return nil, "", err
	}
	return &req, filename, nil
}

// Create 创建文章，作者为当前登录用户。
func (h *Handler) Create(c *gin.Context) {
	claims, err := getClaims(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	req, imageRef, err := h.bindSaveRequest(c)
	if err != nil {
		log.Printf("[PostHandler.Create] 解析请求失败: %v", err)
		response.Fail(c, http.StatusBadRequest, "无效的请求")
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req, claims.UserID, imageRef)
	if err != nil {
		failWith(c, err, "文章不存在")
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, result, "创建文章成功")
}

// Update 更新文章。作者会被重置为当前登录用户。
func (h *Handler) Update(c *gin.Context) {
	claims, err := getClaims(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	req, imageRef, err := h.bindSaveRequest(c)
	if err != nil {
		log.Printf("[PostHandler.Update] 解析请求失败: %v", err)
		response.Fail(c, http.StatusBadRequest, "无效的请求")
		return
	}

	result, err := h.svc.Update(c.Request.Context(), c.Param("id"), req, claims.UserID, imageRef)
	if err != nil {
		failWith(c, err, "文章不存在")
		return
	}
	response.Success(c, result, "更新文章成功")
}

// Delete 删除文章。
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failWith(c, err, "文章不存在")
		return
	}
	response.Success(c, nil, "文章已删除")
}

// AddComment 向文章追加一条评论，评论人为当前登录用户。
func (h *Handler) AddComment(c *gin.Context) {
	claims, err := getClaims(c)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req model.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "评论内容不能为空")
		return
	}

	result, err := h.svc.AddComment(c.Request.Context(), c.Param("id"), req.Content, claims.UserID)
	if err != nil {
		failWith(c, err, "文章不存在")
		return
	}
	response.Success(c, result, "评论成功")
}
