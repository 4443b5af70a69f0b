package admin

import "github.com/ezlab-crm/internal/provider"

// Handler 管理员接口处理器入口
// 说明：路由层已通过 AdminOnly 完成授权判定。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
