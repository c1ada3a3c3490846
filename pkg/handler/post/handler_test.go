package post

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xyhcode/go-blog-api/internal/pkg/auth"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
	postSvc "github.com/xyhcode/go-blog-api/pkg/service/post"
)

// fakeService 记录调用参数并返回预设结果。
type fakeService struct {
	listOptions *model.ListPostsOptions
	listResult  *model.PostListResponse
	listErr     error

	getErr error

	createReq      *model.SavePostRequest
	createAuthorID string
	createImageRef string
	createErr      error

	updateID       string
	updateAuthorID string

	deleteErr error

	commentPostID  string
	commentContent string
	commentUserID  string
	commentErr     error
}

func (f *fakeService) List(_ context.Context, options *model.ListPostsOptions) (*model.PostListResponse, error) {
	f.listOptions = options
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listResult != nil {
		return f.listResult, nil
	}
	return &model.PostListResponse{Posts: []*model.PostResponse{}, TotalPages: 0, CurrentPage: options.Page}, nil
}

func (f *fakeService) Get(_ context.Context, id string) (*model.PostResponse, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &model.PostResponse{ID: id, Title: "标题"}, nil
}

func (f *fakeService) Create(_ context.Context, req *model.SavePostRequest, authorID, imageRef string) (*model.PostResponse, error) {
	f.createReq = req
	f.createAuthorID = authorID
	f.createImageRef = imageRef
	if f.createErr != nil {
		return nil, f.createErr
	}
	image := imageRef
	if image == "" {
		image = model.DefaultFeaturedImage
	}
	return &model.PostResponse{ID: "post-1", Title: req.Title, FeaturedImage: image}, nil
}

func (f *fakeService) Update(_ context.Context, id string, req *model.SavePostRequest, authorID, imageRef string) (*model.PostResponse, error) {
	f.updateID = id
	f.updateAuthorID = authorID
	return &model.PostResponse{ID: id, Title: req.Title}, nil
}

func (f *fakeService) Delete(_ context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeService) AddComment(_ context.Context, postID, content, userID string) (*model.PostResponse, error) {
	f.commentPostID = postID
	f.commentContent = content
	f.commentUserID = userID
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return &model.PostResponse{ID: postID}, nil
}

// fakeUploader 把上传内容缓存在内存里。
type fakeUploader struct {
	savedName    string
	savedContent []byte
}

func (u *fakeUploader) Save(reader io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.savedContent = data
	u.savedName = "generated-" + originalName
	return u.savedName, nil
}

func (u *fakeUploader) BaseDir() string { return "/tmp" }

func setupRouter(svc postSvc.Service, uploader *fakeUploader, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, uploader)

	engine := gin.New()
	// 模拟认证中间件写入的用户信息
	injectClaims := func(c *gin.Context) {
		if userID != "" {
			c.Set(auth.ClaimsKey, &auth.CustomClaims{
				UserID:           userID,
				RegisteredClaims: jwt.RegisteredClaims{},
			})
		}
		c.Next()
	}

	api := engine.Group("/api/posts")
	api.GET("", h.List)
	api.GET("/:id", h.Get)
	api.POST("", injectClaims, h.Create)
	api.PUT("/:id", injectClaims, h.Update)
	api.DELETE("/:id", injectClaims, h.Delete)
	api.POST("/:id/comments", injectClaims, h.AddComment)
	return engine
}

func doRequest(engine *gin.Engine, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestList_Defaults(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "")

	w := doRequest(engine, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.listOptions)
	assert.Equal(t, 1, svc.listOptions.Page)
	assert.Equal(t, 10, svc.listOptions.Limit)
	assert.Empty(t, svc.listOptions.CategoryID)
	assert.Empty(t, svc.listOptions.Search)
}

func TestList_PassesFilters(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "")

	w := doRequest(engine, http.MethodGet, "/api/posts?page=3&limit=5&category=cat-1&search=hello", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.listOptions)
	assert.Equal(t, 3, svc.listOptions.Page)
	assert.Equal(t, 5, svc.listOptions.Limit)
	assert.Equal(t, "cat-1", svc.listOptions.CategoryID)
	assert.Equal(t, "hello", svc.listOptions.Search)
}

func TestList_RejectsBadPagination(t *testing.T) {
	cases := []string{
		"/api/posts?page=0",
		"/api/posts?page=-1",
		"/api/posts?page=abc",
		"/api/posts?limit=0",
		"/api/posts?limit=-5",
		"/api/posts?limit=ten",
		"/api/posts?page=1.5",
	}
	for _, target := range cases {
		svc := &fakeService{}
		engine := setupRouter(svc, &fakeUploader{}, "")

		w := doRequest(engine, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		// 非法分页参数直接拒绝，不触达服务层
		assert.Nil(t, svc.listOptions, target)
	}
}

func TestList_InvalidCategoryID(t *testing.T) {
	svc := &fakeService{listErr: fmt.Errorf("过滤失败: %w", repository.ErrInvalidID)}
	engine := setupRouter(svc, &fakeUploader{}, "")

	w := doRequest(engine, http.MethodGet, "/api/posts?category=!!!", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet_NotFound(t *testing.T) {
	svc := &fakeService{getErr: repository.ErrNotFound}
	engine := setupRouter(svc, &fakeUploader{}, "")

	w := doRequest(engine, http.MethodGet, "/api/posts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGet_InvalidID(t *testing.T) {
	svc := &fakeService{getErr: fmt.Errorf("查询失败: %w", repository.ErrInvalidID)}
	engine := setupRouter(svc, &fakeUploader{}, "")

	w := doRequest(engine, http.MethodGet, "/api/posts/!!!", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreate_Multipart(t *testing.T) {
	svc := &fakeService{}
	uploader := &fakeUploader{}
	engine := setupRouter(svc, uploader, "user-1")

	body, contentType := multipartBody(t, map[string]string{
		"title":    "新文章",
		"content":  "正文",
		"category": "cat-1",
	}, "featuredImage", "cover.png", []byte("png-bytes"))

	w := doRequest(engine, http.MethodPost, "/api/posts", contentType, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NotNil(t, svc.createReq)
	assert.Equal(t, "新文章", svc.createReq.Title)
	assert.Equal(t, "cat-1", svc.createReq.CategoryID)
	assert.Equal(t, "user-1", svc.createAuthorID)
	// 上传的文件被保存，生成的文件名传给服务层
	assert.Equal(t, "generated-cover.png", svc.createImageRef)
	assert.Equal(t, []byte("png-bytes"), uploader.savedContent)
}

func TestCreate_WithoutFile(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "user-1")

	body, contentType := multipartBody(t, map[string]string{
		"title":    "无封面",
		"content":  "正文",
		"category": "cat-1",
	}, "", "", nil)

	w := doRequest(engine, http.MethodPost, "/api/posts", contentType, body)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, svc.createImageRef)
}

func TestCreate_ValidationErrorListsFields(t *testing.T) {
	svc := &fakeService{createErr: &postSvc.ValidationError{Fields: []string{"title", "category"}}}
	engine := setupRouter(svc, &fakeUploader{}, "user-1")

	body, contentType := multipartBody(t, map[string]string{"content": "只有正文"}, "", "", nil)
	w := doRequest(engine, http.MethodPost, "/api/posts", contentType, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	fields, ok := data["fields"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"title", "category"}, fields)
}

func TestCreate_Unauthenticated(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "")

	body, contentType := multipartBody(t, map[string]string{
		"title": "t", "content": "c", "category": "cat-1",
	}, "", "", nil)
	w := doRequest(engine, http.MethodPost, "/api/posts", contentType, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, svc.createReq)
}

func TestUpdate_PassesCallerAsAuthor(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "user-2")

	body, contentType := multipartBody(t, map[string]string{
		"title": "改过的标题", "content": "c", "category": "cat-1",
	}, "", "", nil)
	w := doRequest(engine, http.MethodPut, "/api/posts/post-1", contentType, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "post-1", svc.updateID)
	assert.Equal(t, "user-2", svc.updateAuthorID)
}

func TestDelete_NotFound(t *testing.T) {
	svc := &fakeService{deleteErr: repository.ErrNotFound}
	engine := setupRouter(svc, &fakeUploader{}, "user-1")

	w := doRequest(engine, http.MethodDelete, "/api/posts/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddComment(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "user-2")

	body := strings.NewReader(`{"content":"不错"}`)
	w := doRequest(engine, http.MethodPost, "/api/posts/post-1/comments", "application/json", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "post-1", svc.commentPostID)
	assert.Equal(t, "不错", svc.commentContent)
	assert.Equal(t, "user-2", svc.commentUserID)
}

func TestAddComment_MissingContent(t *testing.T) {
	svc := &fakeService{}
	engine := setupRouter(svc, &fakeUploader{}, "user-2")

	w := doRequest(engine, http.MethodPost, "/api/posts/post-1/comments", "application/json", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.commentPostID)
}

func TestAddComment_PostNotFound(t *testing.T) {
	svc := &fakeService{commentErr: repository.ErrNotFound}
	engine := setupRouter(svc, &fakeUploader{}, "user-2")

	body := strings.NewReader(`{"content":"不错"}`)
	w := doRequest(engine, http.MethodPost, "/api/posts/missing/comments", "application/json", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
