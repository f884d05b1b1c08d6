package httpserver

import (
	"errors"
	"io"
	"net/http"
	"time"

	"pizzapalace/internal/checkout"
	"pizzapalace/internal/domain"
	"pizzapalace/internal/money"

	"github.com/gin-gonic/gin"
)

type summaryResponse struct {
	checkout.Totals
	Display    totalsDisplay `json:"display"`
	TotalItems int           `json:"totalItems"`
}

type totalsDisplay struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"deliveryFee"`
	Total       string `json:"total"`
}

func displayTotals(t checkout.Totals) totalsDisplay {
	return totalsDisplay{
		Subtotal:    money.Format(t.Subtotal),
		Tax:         money.Format(t.Tax),
		DeliveryFee: money.Format(t.DeliveryFee),
		Total:       money.Format(t.Total),
	}
}

type orderView struct {
	ID                  string             `json:"id"`
	Status              domain.OrderStatus `json:"status"`
	StatusLabel         string             `json:"statusLabel"`
	StatusTone          string             `json:"statusTone"`
	Subtotal            float64            `json:"subtotal"`
	DeliveryFee         float64            `json:"deliveryFee"`
	Tax                 float64            `json:"tax"`
	Total               float64            `json:"total"`
	TotalDisplay        string             `json:"totalDisplay"`
	DeliveryAddress     string             `json:"deliveryAddress"`
	City                string             `json:"city"`
	PostalCode          string             `json:"postalCode"`
	Phone               string             `json:"phone"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
	PaymentMethod       string             `json:"paymentMethod"`
	CreatedAt           time.Time          `json:"createdAt"`
	Lines               []domain.OrderLine `json:"lines"`
}

func toOrderView(o domain.Order) orderView {
	lines := o.Lines
	if lines == nil {
		lines = []domain.OrderLine{}
	}
	return orderView{
		ID:                  o.ID,
		Status:              o.Status,
		StatusLabel:         o.Status.Label(),
		StatusTone:          o.Status.Tone(),
		Subtotal:            o.Subtotal,
		DeliveryFee:         o.DeliveryFee,
		Tax:                 o.Tax,
		Total:               o.Total,
		TotalDisplay:        money.Format(o.Total),
		DeliveryAddress:     o.DeliveryAddress,
		City:                o.City,
		PostalCode:          o.PostalCode,
		Phone:               o.Phone,
		SpecialInstructions: o.SpecialInstructions,
		PaymentMethod:       o.PaymentMethod,
		CreatedAt:           o.CreatedAt,
		Lines:               lines,
	}
}

func (h *handlers) checkoutSummary(c *gin.Context) {
	store := h.cart(c)
	lines := store.Lines()
	totals := h.deps.Checkout.Summary(lines)
	c.JSON(http.StatusOK, summaryResponse{
		Totals:     totals,
		Display:    displayTotals(totals),
		TotalItems: store.GetTotalItems(),
	})
}

// submitCheckout answers the sign-in and empty-cart redirects before it
// looks at the body, so an unreadable form never masks them.
func (h *handlers) submitCheckout(c *gin.Context) {
	user, store := currentUser(c), h.cart(c)
	if err := h.deps.Checkout.Precheck(user, store); err != nil {
		h.writeError(c, err)
		return
	}
	var form checkout.Form
	if err := c.ShouldBindJSON(&form); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}
	order, err := h.deps.Checkout.Submit(c.Request.Context(), user, store, form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": toOrderView(*order), "redirect": checkout.ProfilePath})
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.Checkout.History(c.Request.Context(), currentUser(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

func (h *handlers) reorder(c *gin.Context) {
	snap, err := h.deps.Checkout.Reorder(c.Request.Context(), currentUser(c), c.Param("id"), h.cart(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(snap))
}
