package service

import (
	"errors"
	"testing"

	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

func newTestUserAdminService(db *gorm.DB) *UserAdminService {
	return NewUserAdminService(repository.NewUserRepository(db), repository.NewCartRepository(db))
}

func createTestSuperAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createTestUser(t, db, constants.SuperAdminUsername, constants.RoleSuperAdmin)
}

func TestSuperAdminIsProtected(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestUserAdminService(db)
	admin := createTestUser(t, db, "admin1", constants.RoleAdmin)
	root := createTestSuperAdmin(t, db)

	if err := svc.DeleteUser(admin.ID, root.ID); !errors.Is(err, ErrSuperAdminProtected) {
		t.Fatalf("delete super admin want protected got %v", err)
	}
	if err := svc.UpdateUserStatus(admin.ID, root.ID, false); !errors.Is(err, ErrSuperAdminProtected) {
		t.Fatalf("block super admin want protected got %v", err)
	}
	if err := svc.UpdateUserRole(admin.ID, root.ID, "admin"); !errors.Is(err, ErrSuperAdminProtected) {
		t.Fatalf("demote super admin want protected got %v", err)
	}
	if err := svc.UpdateUserRole(admin.ID, root.ID, "super_admin"); err != nil {
		t.Fatalf("reassigning super_admin should be a no-op, got %v", err)
	}
	if got := loadUser(t, db, root.ID); got.Role != constants.RoleSuperAdmin || !got.IsActive {
		t.Fatalf("super admin changed: %+v", got)
	}
}

func TestUpdateUserRole(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestUserAdminService(db)
	admin := createTestUser(t, db, "admin1", constants.RoleAdmin)
	user := createTestUser(t, db, "member", constants.RoleUser)

	if err := svc.UpdateUserRole(admin.ID, user.ID, "owner"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("unknown role want invalid got %v", err)
	}
	if err := svc.UpdateUserRole(admin.ID, user.ID, "super_admin"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("granting super_admin want forbidden got %v", err)
	}
	if err := svc.UpdateUserRole(admin.ID, 999, "admin"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user want not found got %v", err)
	}
	if err := svc.UpdateUserRole(admin.ID, user.ID, "admin"); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if got := loadUser(t, db, user.ID); got.Role != constants.RoleAdmin {
		t.Fatalf("role want admin got %s", got.Role)
	}
}

func TestUpdateUserStatusBlockClearsSession(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestUserAdminService(db)
	user := createTestUser(t, db, "member", constants.RoleUser)
	if err := db.Model(user).Update("is_logged_in", true).Error; err != nil {
		t.Fatalf("mark logged in failed: %v", err)
	}

	if err := svc.UpdateUserStatus(1, user.ID, false); err != nil {
		t.Fatalf("block failed: %v", err)
	}
	got := loadUser(t, db, user.ID)
	if got.IsActive || got.IsLoggedIn {
		t.Fatalf("blocked user should be inactive and logged out: %+v", got)
	}
	if err := svc.UpdateUserStatus(1, user.ID, true); err != nil {
		t.Fatalf("unblock failed: %v", err)
	}
	if got := loadUser(t, db, user.ID); !got.IsActive {
		t.Fatalf("user should be active again")
	}
}

func TestDeleteUserRemovesCart(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestUserAdminService(db)
	user := createTestUser(t, db, "member", constants.RoleUser)
	product := createTestProduct(t, db, "Widget", "2.00", 5)
	if _, err := newTestCartService(db).AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}

	if err := svc.DeleteUser(1, user.ID); err != nil {
		t.Fatalf("delete user failed: %v", err)
	}
	var users, carts, items int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	db.Model(&models.Cart{}).Where("user_id = ?", user.ID).Count(&carts)
	db.Model(&models.CartItem{}).Count(&items)
	if users != 0 || carts != 0 || items != 0 {
		t.Fatalf("want everything removed, got users=%d carts=%d items=%d", users, carts, items)
	}
	if err := svc.DeleteUser(1, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("second delete want not found got %v", err)
	}

	list, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("users want 0 got %d", len(list))
	}
}
