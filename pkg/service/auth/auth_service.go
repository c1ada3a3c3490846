package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xyhcode/go-blog-api/internal/pkg/security"
	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/domain/repository"
)

var (
	// ErrEmailTaken 注册邮箱已被占用。
	ErrEmailTaken = errors.New("邮箱已被注册")
	// ErrInvalidCredentials 邮箱或密码错误。
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// AuthService 封装了注册和登录的业务逻辑。
type AuthService struct {
	userRepo repository.UserRepository
	tokenSvc TokenService
}

// NewAuthService 是 AuthService 的构造函数。
func NewAuthService(userRepo repository.UserRepository, tokenSvc TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokenSvc: tokenSvc}
}

// Register 处理用户注册。密码只以 bcrypt 哈希的形式落库。
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("检查邮箱失败: %w", err)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user, err := s.userRepo.Create(ctx, &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		// 与唯一索引并发竞争时仍可能冲突
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// Login 校验凭证并签发会话令牌。
// 用户不存在与密码错误统一返回 ErrInvalidCredentials，不泄露账号是否存在。
func (s *AuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresAt, err := s.tokenSvc.GenerateSessionTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user.ToResponse(),
	}, nil
}
