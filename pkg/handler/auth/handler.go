package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyhcode/go-blog-api/pkg/domain/model"
	"github.com/xyhcode/go-blog-api/pkg/response"
	authSvc "github.com/xyhcode/go-blog-api/pkg/service/auth"
)

// AuthHandler 封装了注册、登录、令牌刷新的 HTTP 处理器。
type AuthHandler struct {
	svc      *authSvc.AuthService
	tokenSvc authSvc.TokenService
}

// NewAuthHandler 是 AuthHandler 的构造函数。
func NewAuthHandler(svc *authSvc.AuthService, tokenSvc authSvc.TokenService) *AuthHandler {
	return &AuthHandler{svc: svc, tokenSvc: tokenSvc}
}

// Register 处理用户注册。
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求: "+err.Error())
		return
	}

	user, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, authSvc.ErrEmailTaken) {
			response.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("[AuthHandler.Register] 注册失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "注册失败")
		return
	}

	response.SuccessWithStatus(c, http.StatusCreated, user, "注册成功")
}

// Login 处理用户登录，签发会话令牌。
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求: "+err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, authSvc.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("[AuthHandler.Login] 登录失败: %v", err)
		response.Fail(c, http.StatusInternalServerError, "登录失败")
		return
	}

	response.Success(c, result, "登录成功")
}

// Refresh 用刷新令牌换取新的访问令牌。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "无效的请求: "+err.Error())
		return
	}

	accessToken, expiresAt, err := h.tokenSvc.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "无效或过期的刷新令牌")
		return
	}

	response.Success(c, gin.H{
		"access_token": accessToken,
		"expires_at":   expiresAt,
	}, "刷新成功")
}
