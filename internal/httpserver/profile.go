package httpserver

import (
	"net/http"

	"pizzapalace/internal/profile"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getProfile(c *gin.Context) {
	p, err := h.deps.Profiles.Get(c.Request.Context(), *currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *handlers) updateProfile(c *gin.Context) {
	var in profile.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.deps.Profiles.Update(c.Request.Context(), *currentUser(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}
