package service

import (
	"fmt"

	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

// UserView 用户列表项
type UserView struct {
	ID       uint           `json:"id"`
	Username string         `json:"username"`
	Role     constants.Role `json:"role"`
	IsActive bool           `json:"is_active"`
}

// UserAdminService 用户管理服务
type UserAdminService struct {
	userRepo repository.UserRepository
	cartRepo repository.CartRepository
}

// NewUserAdminService 创建用户管理服务
func NewUserAdminService(userRepo repository.UserRepository, cartRepo repository.CartRepository) *UserAdminService {
	return &UserAdminService{
		userRepo: userRepo,
		cartRepo: cartRepo,
	}
}

// ListUsers 用户列表
func (s *UserAdminService) ListUsers() ([]UserView, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, UserView{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
			IsActive: user.IsActive,
		})
	}
	return views, nil
}

// DeleteUser 删除用户及其购物车，订单保留
func (s *UserAdminService) DeleteUser(actorID, targetID uint) error {
	if targetID == 0 {
		return ErrInvalidInput
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		target, err := s.loadTarget(userRepo, targetID)
		if err != nil {
			return err
		}
		if target.IsSuperAdmin() {
			return ErrSuperAdminProtected
		}
		if err := s.cartRepo.WithTx(tx).DeleteForUser(targetID); err != nil {
			return fmt.Errorf("delete cart: %w", err)
		}
		return userRepo.Delete(targetID)
	})
	if err != nil {
		return err
	}
	logger.Infow("user_deleted", "actor_id", actorID, "user_id", targetID)
	return nil
}

// UpdateUserStatus 启用或封禁用户，封禁同时清除会话
func (s *UserAdminService) UpdateUserStatus(actorID, targetID uint, active bool) error {
	if targetID == 0 {
		return ErrInvalidInput
	}
	target, err := s.loadTarget(s.userRepo, targetID)
	if err != nil {
		return err
	}
	if target.IsSuperAdmin() && !active {
		return ErrSuperAdminProtected
	}
	fields := map[string]interface{}{"is_active": active}
	if !active {
		fields["is_logged_in"] = false
	}
	if err := s.userRepo.UpdateFields(targetID, fields); err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	logger.Infow("user_status_updated", "actor_id", actorID, "user_id", targetID, "active", active)
	return nil
}

// UpdateUserRole 修改用户角色
func (s *UserAdminService) UpdateUserRole(actorID, targetID uint, rawRole string) error {
	if targetID == 0 {
		return ErrInvalidInput
	}
	role, ok := constants.ParseRole(rawRole)
	if !ok {
		return ErrInvalidRole
	}
	target, err := s.loadTarget(s.userRepo, targetID)
	if err != nil {
		return err
	}
	if target.IsSuperAdmin() {
		if role == constants.RoleSuperAdmin {
			return nil
		}
		return ErrSuperAdminProtected
	}
	if role == constants.RoleSuperAdmin {
		return ErrForbidden
	}
	if target.Role == role {
		return nil
	}
	if err := s.userRepo.UpdateFields(targetID, map[string]interface{}{"role": role}); err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	logger.Infow("user_role_updated", "actor_id", actorID, "user_id", targetID, "role", role)
	return nil
}

func (s *UserAdminService) loadTarget(repo repository.UserRepository, id uint) (*models.User, error) {
	user, err := repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
