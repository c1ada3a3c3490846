package router

import (
	"github.com/gin-gonic/gin"

	"github.com/xyhcode/go-blog-api/internal/app/middleware"
	auth_handler "github.com/xyhcode/go-blog-api/pkg/handler/auth"
	post_handler "github.com/xyhcode/go-blog-api/pkg/handler/post"
	post_category_handler "github.com/xyhcode/go-blog-api/pkg/handler/post_category"
)

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	authHandler         *auth_handler.AuthHandler
	postHandler         *post_handler.Handler
	postCategoryHandler *post_category_handler.Handler
	mw                  *middleware.Middleware
	uploadDir           string
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	authHandler *auth_handler.AuthHandler,
	postHandler *post_handler.Handler,
	postCategoryHandler *post_category_handler.Handler,
	mw *middleware.Middleware,
	uploadDir string,
) *Router {
	return &Router{
		authHandler:         authHandler,
		postHandler:         postHandler,
		postCategoryHandler: postCategoryHandler,
		mw:                  mw,
		uploadDir:           uploadDir,
	}
}

// Setup 注册全部路由。
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Cors())

	// 上传的封面图以静态文件的形式对外提供
	engine.Static("/uploads", r.uploadDir)

	api := engine.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", r.postHandler.List)
		posts.GET("/:id", r.postHandler.Get)

		posts.POST("", r.mw.JWTAuth(), r.postHandler.Create)
		posts.PUT("/:id", r.mw.JWTAuth(), r.postHandler.Update)
		posts.DELETE("/:id", r.mw.JWTAuth(), r.postHandler.Delete)
		posts.POST("/:id/comments", r.mw.JWTAuth(), r.postHandler.AddComment)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", r.postCategoryHandler.List)
		categories.GET("/:id", r.postCategoryHandler.Get)

		categories.POST("", r.mw.JWTAuth(), r.postCategoryHandler.Create)
		categories.PUT("/:id", r.mw.JWTAuth(), r.postCategoryHandler.Update)
		categories.DELETE("/:id", r.mw.JWTAuth(), r.postCategoryHandler.Delete)
	}
}
