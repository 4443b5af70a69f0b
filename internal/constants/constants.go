package constants

import "strings"

// Role 账号角色
type Role string

// 账号角色常量
const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// SuperAdminUsername 保留的超级管理员用户名
const SuperAdminUsername = "superadmin_ezlab"

// ParseRole 解析角色字符串，未知角色返回 false
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	default:
		return "", false
	}
}

// String 返回角色字符串
func (r Role) String() string {
	return string(r)
}

// 订单状态常量
const (
	OrderStatusDraft     = "Draft"
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusCancelled = "Cancelled"
)

// OrderStatuses 全部可用订单状态
var OrderStatuses = []string{
	OrderStatusDraft,
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusCancelled,
}

// IsValidOrderStatus 校验订单状态
func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// UnknownCustomerName 订单缺少客户名时的展示名
const UnknownCustomerName = "Unknown Customer"

// 队列任务类型
const (
	TaskProductImageCleanup = "product:image_cleanup"
)

// 鉴权上下文键
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextUsername = "username"
)

// 上传目录
const (
	UploadURLPrefix   = "/uploads"
	UploadImageFolder = "images"
)
