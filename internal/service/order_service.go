package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ezlab-crm/internal/constants"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务，负责订单项、库存与总额的一致性
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID        uint
	CustomerName  string
	CompanyName   string
	CustomerEmail string
	CustomerPhone string
	Notes         string
}

// OrderItemDetail 订单项详情（用于响应）
type OrderItemDetail struct {
	ItemID       uint         `json:"item_id"`
	ProductID    uint         `json:"product_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Quantity     int          `json:"quantity"`
	PriceAtOrder models.Money `json:"price_at_order"`
	ImageURLs    []string     `json:"image_urls"`
}

// OrderDetail 订单详情（用于响应）
type OrderDetail struct {
	ID            uint              `json:"id"`
	UserID        uint              `json:"user_id"`
	CustomerName  string            `json:"customer_name"`
	CompanyName   string            `json:"company_name"`
	CustomerEmail string            `json:"customer_email"`
	CustomerPhone string            `json:"customer_phone"`
	Status        string            `json:"status"`
	TotalAmount   models.Money      `json:"total_amount"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemDetail `json:"items"`
}

// OrderSummary 订单列表项
type OrderSummary struct {
	ID            uint         `json:"id"`
	CustomerName  string       `json:"customer_name"`
	CompanyName   string       `json:"company_name"`
	CustomerEmail string       `json:"customer_email"`
	CustomerPhone string       `json:"customer_phone"`
	Status        string       `json:"status"`
	TotalAmount   models.Money `json:"total_amount"`
	Notes         string       `json:"notes"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Create 创建订单，初始状态为 Pending
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, error) {
	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, ErrCustomerNameRequired
	}
	order := &models.Order{
		UserID:        input.UserID,
		CustomerName:  customerName,
		CompanyName:   strings.TrimSpace(input.CompanyName),
		CustomerEmail: strings.TrimSpace(input.CustomerEmail),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Notes:         strings.TrimSpace(input.Notes),
		Status:        constants.OrderStatusPending,
		TotalAmount:   models.Money{},
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// AddItem 向订单添加商品：扣减库存、合并同商品订单项、重算总额。已取消订单不可修改
func (s *OrderService) AddItem(orderID, productID uint, quantity int) (*models.Order, error) {
	if orderID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var result *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderCancelled
		}
		product, err := productRepo.GetByIDForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		if product.Quantity < quantity {
			return ErrInsufficientStock
		}

		existing, err := orderRepo.GetItemByProduct(orderID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := orderRepo.UpdateItemQuantity(existing.ID, existing.Quantity+quantity); err != nil {
				return err
			}
		} else {
			item := &models.OrderItem{
				OrderID:      orderID,
				ProductID:    productID,
				Quantity:     quantity,
				PriceAtOrder: product.Price,
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
		}

		if err := debitStock(productRepo, productID, quantity); err != nil {
			return err
		}
		result, err = recomputeOrderTotal(orderRepo, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItemQuantity 修改订单项数量，按差值调整库存；数量为 0 时删除订单项
func (s *OrderService) UpdateItemQuantity(orderID, itemID uint, quantity int) (*models.Order, error) {
	if orderID == 0 || itemID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	var result *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderCancelled
		}
		item, err := orderRepo.GetItem(orderID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrOrderItemNotFound
		}

		diff := quantity - item.Quantity
		if diff > 0 {
			product, err := productRepo.GetByIDForUpdate(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return ErrProductNotFound
			}
			if product.Quantity < diff {
				return ErrInsufficientStock
			}
		}

		if quantity == 0 {
			if err := orderRepo.DeleteItem(item.ID); err != nil {
				return err
			}
		} else if err := orderRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
			return err
		}

		if err := adjustStock(productRepo, item.ProductID, diff); err != nil {
			return err
		}
		result, err = recomputeOrderTotal(orderRepo, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem 删除订单项并回补库存
func (s *OrderService) RemoveItem(orderID, itemID uint) (*models.Order, error) {
	if orderID == 0 || itemID == 0 {
		return nil, ErrInvalidInput
	}

	var result *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCancelled {
			return ErrOrderCancelled
		}
		item, err := orderRepo.GetItem(orderID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrOrderItemNotFound
		}

		if err := orderRepo.DeleteItem(item.ID); err != nil {
			return err
		}
		if err := creditStock(productRepo, item.ProductID, item.Quantity); err != nil {
			return err
		}
		result, err = recomputeOrderTotal(orderRepo, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus 更新订单状态：进入 Cancelled 回补库存，离开 Cancelled 重新扣减
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	status = strings.TrimSpace(status)
	if !constants.IsValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	var result *models.Order
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		wasCancelled := order.Status == constants.OrderStatusCancelled
		willCancel := status == constants.OrderStatusCancelled
		if wasCancelled != willCancel {
			items, err := orderRepo.ListItems(orderID)
			if err != nil {
				return err
			}
			if willCancel {
				err = creditStockByItems(productRepo, items)
			} else {
				// 恢复订单与新增订单项使用同样的库存校验，不足则整体失败
				err = debitStockByItems(productRepo, items)
			}
			if err != nil {
				return err
			}
		}

		if err := orderRepo.UpdateStatus(orderID, status); err != nil {
			return err
		}
		order.Status = status
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete 删除订单：未取消的订单先回补库存，再删除订单项与订单
func (s *OrderService) Delete(orderID uint) error {
	if orderID == 0 {
		return ErrInvalidInput
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		items, err := orderRepo.ListItems(orderID)
		if err != nil {
			return err
		}
		// 已取消订单的库存在取消时已回补
		if order.Status != constants.OrderStatusCancelled {
			if err := creditStockByItems(productRepo, items); err != nil {
				return err
			}
		}
		if err := orderRepo.DeleteItems(orderID); err != nil {
			return err
		}
		if err := orderRepo.Delete(orderID); err != nil {
			return err
		}
		logger.Infow("order_deleted", "order_id", orderID, "items", len(items), "status", order.Status)
		return nil
	})
}

// GetDetail 获取订单详情
func (s *OrderService) GetDetail(orderID uint) (*OrderDetail, error) {
	if orderID == 0 {
		return nil, ErrInvalidInput
	}
	order, err := s.orderRepo.GetDetail(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	detail := &OrderDetail{
		ID:            order.ID,
		UserID:        order.UserID,
		CustomerName:  displayCustomerName(order.CustomerName),
		CompanyName:   order.CompanyName,
		CustomerEmail: order.CustomerEmail,
		CustomerPhone: order.CustomerPhone,
		Status:        order.Status,
		TotalAmount:   order.TotalAmount,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		Items:         make([]OrderItemDetail, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		row := OrderItemDetail{
			ItemID:       item.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
			ImageURLs:    []string{},
		}
		if item.Product != nil {
			row.Name = item.Product.Name
			row.Description = item.Product.Description
			row.ImageURLs = item.Product.ImageURLs()
		}
		detail.Items = append(detail.Items, row)
	}
	return detail, nil
}

// List 获取全部订单，按创建时间倒序
func (s *OrderService) List() ([]OrderSummary, error) {
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, err
	}
	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summaries = append(summaries, OrderSummary{
			ID:            order.ID,
			CustomerName:  displayCustomerName(order.CustomerName),
			CompanyName:   order.CompanyName,
			CustomerEmail: order.CustomerEmail,
			CustomerPhone: order.CustomerPhone,
			Status:        order.Status,
			TotalAmount:   order.TotalAmount,
			Notes:         order.Notes,
			CreatedAt:     order.CreatedAt,
		})
	}
	return summaries, nil
}

// recomputeOrderTotal 按当前订单项重算并写回订单总额
func recomputeOrderTotal(orderRepo repository.OrderRepository, order *models.Order) (*models.Order, error) {
	items, err := orderRepo.ListItems(order.ID)
	if err != nil {
		return nil, err
	}
	total := sumOrderItems(items)
	if err := orderRepo.UpdateTotal(order.ID, total); err != nil {
		return nil, err
	}
	order.TotalAmount = total
	order.Items = items
	return order, nil
}

func displayCustomerName(name string) string {
	if strings.TrimSpace(name) == "" {
		return constants.UnknownCustomerName
	}
	return name
}
