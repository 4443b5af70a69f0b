package models

import "time"

// Product 商品表
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                       // 主键
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`               // 名称
	Description string    `gorm:"type:text" json:"description"`                               // 描述
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 当前价格
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`                        // 库存（不可为负）
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                                 // 更新时间

	Images []ProductImage `gorm:"foreignKey:ProductID" json:"-"` // 图片（按 id 升序）
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// ImageURLs 按插入顺序返回图片地址
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`         // 商品ID
	ImageURL  string    `gorm:"type:varchar(512);not null" json:"image_url"` // 图片地址（正斜杠路径）
	CreatedAt time.Time `json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
