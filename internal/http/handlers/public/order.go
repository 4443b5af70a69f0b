package public

import (
	"github.com/ezlab-crm/internal/http/response"
	"github.com/ezlab-crm/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerName  string `json:"customer_name"`
	CompanyName   string `json:"company_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
}

// OrderItemRequest 订单项请求
type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// OrderItemQuantityRequest 修改订单项数量请求
type OrderItemQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// OrderStatusRequest 修改订单状态请求
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder 创建订单（无订单项，状态 Pending）
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := h.OrderService.Create(service.CreateOrderInput{
		UserID:        uid,
		CustomerName:  req.CustomerName,
		CompanyName:   req.CompanyName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, "order created", gin.H{"order_id": order.ID})
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.OrderService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, orders)
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	detail, err := h.OrderService.GetDetail(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// AddOrderItem 添加订单项并扣减库存
func (h *Handler) AddOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := h.OrderService.AddItem(orderID, req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order item added", gin.H{"order": order})
}

// UpdateOrderItem 修改订单项数量并按差值调整库存
func (h *Handler) UpdateOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var req OrderItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := h.OrderService.UpdateItemQuantity(orderID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order item updated", gin.H{"order": order})
}

// RemoveOrderItem 删除订单项并回补库存
func (h *Handler) RemoveOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	order, err := h.OrderService.RemoveItem(orderID, itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order item removed", gin.H{"order": order})
}

// UpdateOrderStatus 修改订单状态，取消与恢复时调整库存
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, err)
		return
	}
	order, err := h.OrderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order status updated", gin.H{"order": order})
}

// DeleteOrder 删除订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := h.OrderService.Delete(orderID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "order deleted", nil)
}
