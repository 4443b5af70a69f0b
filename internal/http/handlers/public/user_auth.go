package public

import (
	"github.com/ezlab-crm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CredentialsRequest 注册/登录请求
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	user, err := h.UserAuthService.Register(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "user registered", user)
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	result, err := h.UserAuthService.Login(req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "login successful", result)
}

// Logout 退出登录，旧令牌随即失效
func (h *Handler) Logout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(uid); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "logged out", nil)
}
