package service

import (
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

// DefaultCartQuantity 未指定数量时加入购物车的数量
const DefaultCartQuantity = 1

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ItemID       uint         `json:"item_id"`
	ProductID    uint         `json:"product_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        models.Money `json:"price"`
	ProductStock int          `json:"product_stock"`
	Quantity     int          `json:"quantity"`
	PriceAtAdd   models.Money `json:"price_at_add"`
	ImageURLs    []string     `json:"image_urls"`
}

// CartDetail 购物车详情
type CartDetail struct {
	CartID uint             `json:"cart_id"`
	Items  []CartItemDetail `json:"items"`
}

// CartService 购物车服务，只校验库存不占用库存
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart 获取用户购物车，不存在时创建
func (s *CartService) GetOrCreateCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return getOrCreateCart(s.cartRepo, userID)
}

// Get 获取购物车详情
func (s *CartService) Get(userID uint) (*CartDetail, error) {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	detail := &CartDetail{
		CartID: cart.ID,
		Items:  make([]CartItemDetail, 0, len(items)),
	}
	for _, item := range items {
		row := CartItemDetail{
			ItemID:     item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceAtAdd: item.PriceAtAdd,
			ImageURLs:  []string{},
		}
		if item.Product != nil {
			row.Name = item.Product.Name
			row.Description = item.Product.Description
			row.Price = item.Product.Price
			row.ProductStock = item.Product.Quantity
			row.ImageURLs = item.Product.ImageURLs()
		}
		detail.Items = append(detail.Items, row)
	}
	return detail, nil
}

// AddItem 加入购物车，累计数量不得超过当前库存
func (s *CartService) AddItem(userID, productID uint, quantity int) (*models.CartItem, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result *models.CartItem
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		product, err := productRepo.GetByID(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		cart, err := getOrCreateCart(cartRepo, userID)
		if err != nil {
			return err
		}
		existing, err := cartRepo.GetItemByProduct(cart.ID, productID)
		if err != nil {
			return err
		}

		current := 0
		if existing != nil {
			current = existing.Quantity
		}
		if current+quantity > product.Quantity {
			return ErrInsufficientStock
		}

		if existing != nil {
			existing.Quantity = current + quantity
			existing.PriceAtAdd = product.Price
			if err := cartRepo.UpdateItem(existing); err != nil {
				return err
			}
			result = existing
			return nil
		}
		item := &models.CartItem{
			CartID:     cart.ID,
			ProductID:  productID,
			Quantity:   quantity,
			PriceAtAdd: product.Price,
		}
		if err := cartRepo.CreateItem(item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItemQuantity 修改购物车项数量，数量为 0 时删除
func (s *CartService) UpdateItemQuantity(userID, itemID uint, quantity int) error {
	if userID == 0 || itemID == 0 {
		return ErrInvalidInput
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	return models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		item, err := cartRepo.GetItemForUser(userID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		if quantity == 0 {
			_, err := cartRepo.DeleteItemForUser(userID, itemID)
			return err
		}

		product, err := productRepo.GetByID(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if quantity > product.Quantity {
			return ErrInsufficientStock
		}
		item.Quantity = quantity
		return cartRepo.UpdateItem(item)
	})
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) error {
	if userID == 0 || itemID == 0 {
		return ErrInvalidInput
	}
	affected, err := s.cartRepo.DeleteItemForUser(userID, itemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	_, err := s.cartRepo.ClearForUser(userID)
	return err
}

func getOrCreateCart(cartRepo repository.CartRepository, userID uint) (*models.Cart, error) {
	cart, err := cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	return cartRepo.CreateIfAbsent(userID)
}
