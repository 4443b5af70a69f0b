package models

import (
	"errors"
	"fmt"

	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitSuperAdmin 确保保留的超级管理员账号存在且角色正确
func InitSuperAdmin(db *gorm.DB, password, defaultPassword string, cost int) error {
	var existing User
	err := db.Where("username = ?", constants.SuperAdminUsername).First(&existing).Error
	if err == nil {
		if existing.Role != constants.RoleSuperAdmin || !existing.IsActive {
			if err := db.Model(&existing).Updates(map[string]interface{}{
				"role":      constants.RoleSuperAdmin,
				"is_active": true,
			}).Error; err != nil {
				return fmt.Errorf("repair super admin: %w", err)
			}
			logger.Warnw("super_admin_repaired", "username", existing.Username)
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("load super admin: %w", err)
	}

	if password == "" {
		password = defaultPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	admin := User{
		Username:     constants.SuperAdminUsername,
		PasswordHash: string(hash),
		Role:         constants.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create super admin: %w", err)
	}

	if password == defaultPassword {
		logger.Warnw("super_admin_created_with_default_password", "username", admin.Username)
	} else {
		logger.Infow("super_admin_created", "username", admin.Username)
	}
	return nil
}
