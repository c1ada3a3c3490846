package auth

import (
	"context"
	"fmt"

	"github.com/xyhcode/go-blog-api/internal/pkg/auth"
	"github.com/xyhcode/go-blog-api/pkg/config"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
	"github.com/xyhcode/go-blog-api/pkg/service/utility"
)

// refreshTokenPrefix 是刷新令牌在缓存中的键前缀。
const refreshTokenPrefix = "refresh_token:"

// TokenService 负责会话令牌的签发、刷新和解析。
type TokenService interface {
	GenerateSessionTokens(ctx context.Context, user *model.User) (accessToken, refreshToken string, expiresAt int64, err error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (accessToken string, expiresAt int64, err error)
	ParseAccessToken(ctx context.Context, accessToken string) (*auth.CustomClaims, error)
}

// tokenService 依赖缓存服务登记已签发的刷新令牌，
// 刷新时除校验签名外还要求令牌仍在登记表中。
type tokenService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	cacheSvc utility.CacheService
}

// NewTokenService 构造函数
func NewTokenService(userRepo repository.UserRepository, cfg *config.Config, cacheSvc utility.CacheService) TokenService {
	return &tokenService{
		userRepo: userRepo,
		cfg:      cfg,
		cacheSvc: cacheSvc,
	}
}

func (s *tokenService) secret() ([]byte, error) {
	jwtSecret := s.cfg.GetString(config.KeyJWTSecret)
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT 密钥未配置, 无法处理令牌")
	}
	return []byte(jwtSecret), nil
}

// GenerateSessionTokens 为用户签发一对访问/刷新令牌，并把刷新令牌登记到缓存。
func (s *tokenService) GenerateSessionTokens(ctx context.Context, user *model.User) (string, string, int64, error) {
	secret, err := s.secret()
	if err != nil {
		return "", "", 0, err
	}

	accessToken, err := auth.GenerateToken(user.ID, secret)
	if err != nil {
		return "", "", 0, err
	}
	refreshToken, err := auth.GenerateRefreshToken(user.ID, secret)
	if err != nil {
		return "", "", 0, err
	}

	// 登记刷新令牌，过期时间与令牌本身一致
	if err := s.cacheSvc.Set(ctx, refreshTokenPrefix+refreshToken, user.ID, auth.RefreshTokenTTL); err != nil {
		return "", "", 0, fmt.Errorf("登记刷新令牌失败: %w", err)
	}

	claims, err := auth.ParseToken(accessToken, secret)
	if err != nil {
		return "", "", 0, err
	}
	expiresAt := claims.ExpiresAt.Time.UnixMilli()

	return accessToken, refreshToken, expiresAt, nil
}

// RefreshAccessToken 校验刷新令牌并签发新的访问令牌。
func (s *tokenService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, int64, error) {
	secret, err := s.secret()
	if err != nil {
		return "", 0, err
	}

	claims, err := auth.ParseToken(refreshToken, secret)
	if err != nil {
		return "", 0, fmt.Errorf("无效或过期的刷新令牌: %w", err)
	}

	// 签名有效还不够，令牌必须仍在登记表中（登出或轮换后即失效）
	registeredUserID, err := s.cacheSvc.Get(ctx, refreshTokenPrefix+refreshToken)
	if err != nil {
		return "", 0, fmt.Errorf("查询刷新令牌登记失败: %w", err)
	}
	if registeredUserID == "" || registeredUserID != claims.UserID {
		return "", 0, fmt.Errorf("刷新令牌未登记或已失效")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", 0, fmt.Errorf("用户不存在或状态异常")
	}

	accessToken, err := auth.GenerateToken(user.ID, secret)
	if err != nil {
		return "", 0, err
	}

	newClaims, err := auth.ParseToken(accessToken, secret)
	if err != nil {
		return "", 0, err
	}
	return accessToken, newClaims.ExpiresAt.Time.UnixMilli(), nil
}

// ParseAccessToken 解析访问令牌。
func (s *tokenService) ParseAccessToken(_ context.Context, accessToken string) (*auth.CustomClaims, error) {
	secret, err := s.secret()
	if err != nil {
		return nil, err
	}
	return auth.ParseToken(accessToken, secret)
}
