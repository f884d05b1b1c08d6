package httpserver

import (
	"net/http"
	"strconv"

	"pizzapalace/internal/cart"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/money"

	"github.com/gin-gonic/gin"
)

// addItemRequest names the product only. Name and price always come from
// the catalog; any other fields in the body are ignored.
type addItemRequest struct {
	ProductID int64 `json:"id" binding:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartResponse struct {
	Items        []domain.CartLine `json:"items"`
	Total        float64           `json:"total"`
	TotalDisplay string            `json:"totalDisplay"`
	TotalItems   int               `json:"totalItems"`
}

func toCartResponse(s cart.Snapshot) cartResponse {
	items := s.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponse{
		Items:        items,
		Total:        s.Total,
		TotalDisplay: money.Format(s.Total),
		TotalItems:   s.TotalItems,
	}
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.cart(c).Snapshot()))
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.deps.Catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.cart(c).AddToCart(c.Request.Context(), *p)))
}

func (h *handlers) updateItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	snap := h.cart(c).UpdateQuantity(c.Request.Context(), id, *req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(snap))
}

func (h *handlers) removeItem(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toCartResponse(h.cart(c).RemoveFromCart(c.Request.Context(), id)))
}

func (h *handlers) clearCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(h.cart(c).ClearCart(c.Request.Context())))
}
