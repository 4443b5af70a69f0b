package models

import "time"

// Order 订单表（由员工代客创建）
type Order struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                      // 主键
	UserID        uint      `gorm:"index;not null" json:"user_id"`                             // 创建人
	CustomerName  string    `gorm:"type:varchar(255)" json:"customer_name"`                    // 客户名称
	CompanyName   string    `gorm:"type:varchar(255)" json:"company_name"`                     // 公司名称
	CustomerEmail string    `gorm:"type:varchar(255)" json:"customer_email"`                   // 客户邮箱
	CustomerPhone string    `gorm:"type:varchar(64)" json:"customer_phone"`                    // 客户电话
	Status        string    `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	TotalAmount   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单总额
	Notes         string    `gorm:"type:text" json:"notes"`                                    // 备注
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                                // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                            // 主键
	OrderID      uint      `gorm:"not null;uniqueIndex:idx_order_product" json:"order_id"`          // 订单ID
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_order_product;index" json:"product_id"`  // 商品ID
	Quantity     int       `gorm:"not null" json:"quantity"`                                        // 数量
	PriceAtOrder Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price_at_order"`     // 下单时价格
	CreatedAt    time.Time `json:"created_at"`                                                      // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                      // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
