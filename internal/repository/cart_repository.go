package repository

import (
	"errors"

	"github.com/ezlab-crm/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUserID(userID uint) (*models.Cart, error)
	CreateIfAbsent(userID uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItemByProduct(cartID, productID uint) (*models.CartItem, error)
	GetItemForUser(userID, itemID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	DeleteItemForUser(userID, itemID uint) (int64, error)
	ClearForUser(userID uint) (int64, error)
	DeleteForUser(userID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUserID 获取用户购物车
func (r *GormCartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// CreateIfAbsent 创建购物车，已存在时返回现有记录
func (r *GormCartRepository) CreateIfAbsent(userID uint) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return nil, err
	}
	// 并发创建时插入被忽略，重新读取已存在的购物车
	existing, err := r.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("cart missing after create")
	}
	return existing, nil
}

// ListItems 获取购物车项（含商品与图片）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").
		Preload("Product.Images", orderImages).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemByProduct 获取购物车中某商品的项
func (r *GormCartRepository) GetItemByProduct(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetItemForUser 通过 cart→user 关联获取购物车项，非本人返回 nil
func (r *GormCartRepository) GetItemForUser(userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Omit("Product").Create(item).Error
}

// UpdateItem 更新购物车项数量与价格
func (r *GormCartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"quantity":     item.Quantity,
			"price_at_add": item.PriceAtAdd,
		}).Error
}

// DeleteItemForUser 删除本人购物车中的一项
func (r *GormCartRepository) DeleteItemForUser(userID, itemID uint) (int64, error) {
	result := r.db.Where("id = ? AND cart_id IN (?)", itemID, r.userCartIDs(userID)).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearForUser 清空本人购物车
func (r *GormCartRepository) ClearForUser(userID uint) (int64, error) {
	result := r.db.Where("cart_id IN (?)", r.userCartIDs(userID)).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteForUser 删除用户的购物车及全部商品项
func (r *GormCartRepository) DeleteForUser(userID uint) error {
	if _, err := r.ClearForUser(userID); err != nil {
		return err
	}
	return r.db.Where("user_id = ?", userID).Delete(&models.Cart{}).Error
}

func (r *GormCartRepository) userCartIDs(userID uint) *gorm.DB {
	return r.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Cart{}).
		Select("id").
		Where("user_id = ?", userID)
}
