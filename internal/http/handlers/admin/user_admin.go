package admin

import (
	"github.com/ezlab-crm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UserStatusRequest 用户状态请求，1 启用 0 封禁
type UserStatusRequest struct {
	Value *int `json:"value"`
}

// UserRoleRequest 用户角色请求
type UserRoleRequest struct {
	Value string `json:"value"`
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	actorID, ok := getActorID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.UserAdminService.DeleteUser(actorID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "user deleted", nil)
}

// UpdateUserStatus 启用/封禁用户
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	actorID, ok := getActorID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Value == nil || (*req.Value != 0 && *req.Value != 1) {
		respondBadRequest(c, "value must be 0 or 1")
		return
	}
	if err := h.UserAdminService.UpdateUserStatus(actorID, targetID, *req.Value == 1); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "user status updated", nil)
}

// UpdateUserRole 修改用户角色
func (h *Handler) UpdateUserRole(c *gin.Context) {
	actorID, ok := getActorID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.UserAdminService.UpdateUserRole(actorID, targetID, req.Value); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "user role updated", nil)
}
