package public

import (
	"github.com/ezlab-crm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListUsers 用户列表
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.UserAdminService.ListUsers()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, users)
}
