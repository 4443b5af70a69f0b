package public

import (
	"github.com/ezlab-crm/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.ProductService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}
