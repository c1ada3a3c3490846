package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/go-blog-api/internal/app/middleware"
	"github.com/xyhcode/go-blog-api/internal/infra/persistence/database"
	mongorepo "github.com/xyhcode/go-blog-api/internal/infra/persistence/mongo"
	"github.com/xyhcode/go-blog-api/internal/infra/router"
	"github.com/xyhcode/go-blog-api/internal/infra/storage"
	"github.com/xyhcode/go-blog-api/pkg/config"
	auth_handler "github.com/xyhcode/go-blog-api/pkg/handler/auth"
	post_handler "github.com/xyhcode/go-blog-api/pkg/handler/post"
	post_category_handler "github.com/xyhcode/go-blog-api/pkg/handler/post_category"
	auth_service "github.com/xyhcode/go-blog-api/pkg/service/auth"
	post_service "github.com/xyhcode/go-blog-api/pkg/service/post"
	post_category_service "github.com/xyhcode/go-blog-api/pkg/service/post_category"
	"github.com/xyhcode/go-blog-api/pkg/service/utility"
)

// App 持有组装完成的 HTTP 引擎和配置。
type App struct {
	engine *gin.Engine
	cfg    *config.Config
}

// NewApp 构建整个应用：加载配置、连接存储、逐层装配依赖。
// 返回的 cleanup 负责释放数据库连接等资源。
func NewApp() (*App, func(), error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// --- 基础设施 ---
	db, dbCleanup, err := database.NewMongoDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化 MongoDB 失败: %w", err)
	}

	redisClient := database.NewRedisClient(ctx, cfg)
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	uploader, err := storage.NewLocalProvider(cfg.GetString(config.KeyUploadDir))
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("初始化上传存储失败: %w", err)
	}

	// --- 仓库层 ---
	postRepo := mongorepo.NewPostRepo(db)
	categoryRepo := mongorepo.NewPostCategoryRepo(db)
	userRepo := mongorepo.NewUserRepo(db)

	// --- 服务层 ---
	tokenSvc := auth_service.NewTokenService(userRepo, cfg, cacheSvc)
	authSvc := auth_service.NewAuthService(userRepo, tokenSvc)
	postSvc := post_service.NewService(postRepo, categoryRepo, userRepo)
	categorySvc := post_category_service.NewService(categoryRepo)

	// --- 处理器与路由 ---
	authHandler := auth_handler.NewAuthHandler(authSvc, tokenSvc)
	postHandler := post_handler.NewHandler(postSvc, uploader)
	categoryHandler := post_category_handler.NewHandler(categorySvc)
	mw := middleware.NewMiddleware(tokenSvc)

	engine := gin.Default()
	r := router.NewRouter(authHandler, postHandler, categoryHandler, mw, uploader.BaseDir())
	r.Setup(engine)

	cleanup := func() {
		dbCleanup()
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Printf("警告: 关闭 Redis 连接失败: %v", err)
			}
		}
	}

	return &App{engine: engine, cfg: cfg}, cleanup, nil
}

// Run 启动 HTTP 服务。
func (a *App) Run() error {
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 服务启动，监听端口 %s", port)
	return a.engine.Run(":" + port)
}
