package models

import (
	"time"

	"github.com/ezlab-crm/internal/constants"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                 // 主键
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"` // 用户名
	PasswordHash string         `gorm:"not null" json:"-"`                                    // 密码哈希（不返回给前端）
	Role         constants.Role `gorm:"type:varchar(20);not null;default:'user'" json:"role"` // 角色
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`               // 是否启用
	IsLoggedIn   bool           `gorm:"not null;default:false" json:"-"`                      // 是否存在活跃会话
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`                              // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                           // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsSuperAdmin 是否为保留的超级管理员账号
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Username == constants.SuperAdminUsername
}
