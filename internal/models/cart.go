package models

import "time"

// Cart 购物车，每个用户至多一个
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // 主键
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"` // 用户ID
	CreatedAt time.Time `json:"created_at"`                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                        // 更新时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项
type CartItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                          // 主键
	CartID     uint      `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`          // 购物车ID
	ProductID  uint      `gorm:"not null;uniqueIndex:idx_cart_product;index" json:"product_id"` // 商品ID
	Quantity   int       `gorm:"not null" json:"quantity"`                                      // 数量
	PriceAtAdd Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_add"`     // 加入时价格
	CreatedAt  time.Time `json:"created_at"`                                                    // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                                    // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
