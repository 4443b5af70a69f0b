package admin

import (
	"strconv"
	"strings"

	"github.com/ezlab-crm/internal/http/response"
	"github.com/ezlab-crm/internal/models"
	"github.com/ezlab-crm/internal/service"

	"github.com/gin-gonic/gin"
)

const imagesFormField = "images"

// CreateProduct 创建商品（multipart：name, description, price, quantity, images）
func (h *Handler) CreateProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		requestLog(c).Debugw("product_form_invalid", "error", err)
		respondBadRequest(c, "invalid multipart form")
		return
	}

	price, err := models.ParseMoney(strings.TrimSpace(c.PostForm("price")))
	if err != nil {
		respondServiceError(c, service.ErrInvalidPrice)
		return
	}
	quantity := 0
	if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, service.ErrInvalidQuantity)
			return
		}
	}

	result, err := h.ProductService.Create(service.CreateProductInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Quantity:    quantity,
		Images:      form.File[imagesFormField],
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "product created", result)
}

// DeleteProduct 删除商品及其图片
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "product deleted", nil)
}
