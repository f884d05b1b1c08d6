package httpserver

import (
	"net/http"
	"strconv"

	"pizzapalace/internal/catalog"
	"pizzapalace/internal/domain"

	"github.com/gin-gonic/gin"
)

type reactionRequest struct {
	Type string `json:"type" binding:"required,oneof=like dislike"`
}

func (h *handlers) listMenu(c *gin.Context) {
	featured, _ := strconv.ParseBool(c.Query("featured"))
	res := h.deps.Catalog.LoadProducts(c.Request.Context(), catalog.Filter{
		Category:     c.Query("category"),
		FeaturedOnly: featured,
	})
	c.JSON(http.StatusOK, res)
}

func (h *handlers) featuredMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Catalog.FeaturedProducts(c.Request.Context()))
}

func (h *handlers) listTestimonials(c *gin.Context) {
	items, fromFallback := h.deps.Catalog.LoadTestimonials(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"testimonials": items, "fallback": fromFallback})
}

func (h *handlers) react(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.deps.Catalog.React(c.Request.Context(), c.Param("id"), domain.Reaction(req.Type))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonial": t})
}
