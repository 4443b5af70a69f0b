package public

import "github.com/ezlab-crm/internal/provider"

// Handler 公开与登录用户接口处理器入口
// 说明：管理员专属写操作位于 admin 包。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
