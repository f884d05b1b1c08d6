package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"pizzapalace/internal/auth"
	"pizzapalace/internal/checkout"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const placeOrderNotice = "We could not place your order. Please try again."

// writeError maps service errors onto HTTP responses.
func (h *handlers) writeError(c *gin.Context, err error) {
	var redirect *checkout.RedirectError
	switch {
	case errors.As(err, &redirect):
		c.Header("Location", redirect.Location)
		c.JSON(http.StatusSeeOther, gin.H{"error": redirect.Reason, "redirect": redirect.Location})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, checkout.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, checkout.ErrPlaceOrder):
		c.JSON(http.StatusBadGateway, gin.H{"error": placeOrderNotice})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": checkout.LoginPath})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validation.Describe(err)})
}

// validationMessage strips the sentinel prefix from wrapped validation errors.
func validationMessage(err error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, domain.ErrValidation.Error()+": "); ok {
		return rest
	}
	return msg
}
