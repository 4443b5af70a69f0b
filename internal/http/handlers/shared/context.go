package shared

import (
	"strconv"
	"strings"

	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetUserID 从上下文读取当前用户 ID，缺失时直接返回 401。
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.ContextUserID)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}
	id, ok := value.(uint)
	if !ok || id == 0 {
		RespondError(c, response.CodeUnauthorized, "unauthorized", nil)
		return 0, false
	}
	return id, true
}

// GetUserRole 从上下文读取当前用户角色
func GetUserRole(c *gin.Context) constants.Role {
	value, _ := c.Get(constants.ContextUserRole)
	role, _ := value.(constants.Role)
	return role
}

// ParseIDParam 解析路径中的正整数 ID，失败时返回 400。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeBadRequest, "invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}
